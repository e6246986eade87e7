package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/warranty-api/internal/catalog"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// fakeVehicles — crudResource с записью последних аргументов.
type fakeVehicles struct {
	rows      map[int64]models.Vehicle
	inUse     map[int64]bool
	lastSkip  int
	lastLimit int
	lastPatch models.VehiclePatch
}

func newFakeVehicles() *fakeVehicles {
	return &fakeVehicles{
		rows: map[int64]models.Vehicle{
			1: {VehicleID: 1, Model: "Falcon", ProdDate: models.NewDate(2020, 3, 1), Year: 2020, Propulsion: models.PropulsionDiesel},
		},
		inUse: map[int64]bool{},
	}
}

func (f *fakeVehicles) Entity() string    { return "Vehicle" }
func (f *fakeVehicles) Plural() string    { return "vehicles" }
func (f *fakeVehicles) DefaultLimit() int { return 1000 }

func (f *fakeVehicles) List(_ context.Context, skip, limit int) ([]models.Vehicle, error) {
	f.lastSkip, f.lastLimit = skip, limit
	out := []models.Vehicle{}
	for _, v := range f.rows {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVehicles) ByID(_ context.Context, id int64) (*models.Vehicle, error) {
	v, ok := f.rows[id]
	if !ok {
		return nil, &catalog.NotFoundError{Entity: "Vehicle"}
	}
	return &v, nil
}

func (f *fakeVehicles) Create(_ context.Context, v models.Vehicle) (*models.Vehicle, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v.VehicleID = int64(len(f.rows) + 1)
	f.rows[v.VehicleID] = v
	return &v, nil
}

func (f *fakeVehicles) CreateBulk(ctx context.Context, items []models.Vehicle) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, 0, len(items))
	for _, v := range items {
		created, err := f.Create(ctx, v)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, nil
}

func (f *fakeVehicles) Update(_ context.Context, id int64, patch models.VehiclePatch) (*models.Vehicle, error) {
	f.lastPatch = patch
	v, ok := f.rows[id]
	if !ok {
		return nil, &catalog.NotFoundError{Entity: "Vehicle"}
	}
	if patch.Model != nil {
		v.Model = *patch.Model
	}
	f.rows[id] = v
	return &v, nil
}

func (f *fakeVehicles) Delete(_ context.Context, id int64) error {
	if f.inUse[id] {
		return storage.ErrInUse
	}
	if _, ok := f.rows[id]; !ok {
		return &catalog.NotFoundError{Entity: "Vehicle"}
	}
	delete(f.rows, id)
	return nil
}

func vehicleRouter(f *fakeVehicles, bulkRows bool) http.Handler {
	r := chi.NewRouter()
	r.Route("/vehicles", func(r chi.Router) {
		mountCRUD[models.Vehicle, models.VehiclePatch](r, f, "vehicle_id", bulkRows)
	})
	return r
}

func TestCRUD_ListPaging(t *testing.T) {
	t.Parallel()

	f := newFakeVehicles()
	h := vehicleRouter(f, false)

	apitest.New().
		Handler(h).
		Get("/vehicles/").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].prod_date", "2020-03-01")).
		End()
	require.Equal(t, 0, f.lastSkip)
	require.Equal(t, 1000, f.lastLimit)

	apitest.New().
		Handler(h).
		Get("/vehicles/").
		Query("skip", "5").
		Query("limit", "7").
		Expect(t).
		Status(http.StatusOK).
		End()
	require.Equal(t, 5, f.lastSkip)
	require.Equal(t, 7, f.lastLimit)

	apitest.New().
		Handler(h).
		Get("/vehicles/").
		Query("limit", "lots").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal("$.detail", "limit: must be an integer")).
		End()
}

func TestCRUD_CreateAndBulk(t *testing.T) {
	t.Parallel()

	f := newFakeVehicles()

	apitest.New().
		Handler(vehicleRouter(f, false)).
		Post("/vehicles/create").
		JSON(`{"model":"Kestrel","prod_date":"2021-05-04","year":2021,"propulsion":"Electric"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.vehicle_id", float64(2))).
		Assert(jsonpath.Equal("$.propulsion", "Electric")).
		End()

	apitest.New().
		Handler(vehicleRouter(f, false)).
		Post("/vehicles/bulk").
		JSON(`[{"model":"A","prod_date":"2019-01-01","year":2019,"propulsion":"Hybrid"}]`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "Bulk vehicles created successfully")).
		End()

	apitest.New().
		Handler(vehicleRouter(f, true)).
		Post("/vehicles/bulk").
		JSON(`[{"model":"B","prod_date":"2019-01-01","year":2019,"propulsion":"Gasoline"}]`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].model", "B")).
		End()
}

func TestCRUD_CreateRejectsBadBody(t *testing.T) {
	t.Parallel()

	h := vehicleRouter(newFakeVehicles(), false)

	apitest.New().
		Handler(h).
		Post("/vehicles/create").
		JSON(`{"model":"Kestrel","prod_date":"04/05/2021","year":2021,"propulsion":"Electric"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		End()

	apitest.New().
		Handler(h).
		Post("/vehicles/create").
		JSON(`{"model":"Kestrel","prod_date":"2021-05-04","year":2021,"propulsion":"Steam"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Contains("$.detail", "propulsion")).
		End()

	apitest.New().
		Handler(h).
		Post("/vehicles/create").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal("$.detail", "body: request body is required")).
		End()
}

func TestCRUD_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	f := newFakeVehicles()
	f.rows[2] = models.Vehicle{VehicleID: 2, Model: "Used", ProdDate: models.NewDate(2018, 1, 1), Year: 2018, Propulsion: models.PropulsionGasoline}
	f.inUse[2] = true
	h := vehicleRouter(f, false)

	apitest.New().
		Handler(h).
		Get("/vehicles/1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.model", "Falcon")).
		End()

	apitest.New().
		Handler(h).
		Get("/vehicles/99").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.detail", "Vehicle not found")).
		End()

	apitest.New().
		Handler(h).
		Get("/vehicles/abc").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal("$.detail", "vehicle_id: must be an integer")).
		End()

	apitest.New().
		Handler(h).
		Put("/vehicles/1").
		JSON(`{"model":"Falcon II"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.model", "Falcon II")).
		Assert(jsonpath.Equal("$.year", float64(2020))).
		End()
	require.Nil(t, f.lastPatch.Year)

	apitest.New().
		Handler(h).
		Delete("/vehicles/2").
		Expect(t).
		Status(http.StatusConflict).
		End()

	apitest.New().
		Handler(h).
		Delete("/vehicles/1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "Vehicle deleted successfully")).
		End()

	apitest.New().
		Handler(h).
		Delete("/vehicles/1").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestDateRangeHandler(t *testing.T) {
	t.Parallel()

	var gotFrom, gotTo models.Date
	r := chi.NewRouter()
	r.Get("/range", dateRangeHandler(func(_ context.Context, from, to models.Date) ([]string, error) {
		gotFrom, gotTo = from, to
		return []string{}, nil
	}))

	apitest.New().
		Handler(r).
		Get("/range").
		Query("start_date", "2024-01-01").
		Query("end_date", "2024-12-31").
		Expect(t).
		Status(http.StatusOK).
		Body(`[]`).
		End()
	require.Equal(t, "2024-01-01", gotFrom.String())
	require.Equal(t, "2024-12-31", gotTo.String())

	apitest.New().
		Handler(r).
		Get("/range").
		Query("start_date", "2024-01-01").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal("$.detail", "end_date: field required")).
		End()

	apitest.New().
		Handler(r).
		Get("/range").
		Query("start_date", "yesterday").
		Query("end_date", "2024-12-31").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal("$.detail", "start_date: must be a YYYY-MM-DD date")).
		End()
}

func TestCountsHandler_Failure(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/counts", countsHandler(func(context.Context) (storage.Counts, error) {
		return nil, errors.New("db down")
	}))
	r.Get("/ok", countsHandler(func(context.Context) (storage.Counts, error) {
		return storage.Counts{"2024": 3}, nil
	}))

	apitest.New().
		Handler(r).
		Get("/counts").
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal("$.detail", "Internal server error")).
		End()

	apitest.New().
		Handler(r).
		Get("/ok").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$["2024"]`, float64(3))).
		End()
}

// stubAuth проверяет, что без токена хендлеры не доходят до сервиса.
type stubAuth struct {
	AuthService
	called bool
}

func (s *stubAuth) WhoAmI(context.Context, string) (*models.User, error) {
	s.called = true
	return &models.User{Username: "alice", Email: "alice@example.com"}, nil
}

func (s *stubAuth) Logout(context.Context, string) error {
	s.called = true
	return nil
}

func TestMeAndLogout_RequireToken(t *testing.T) {
	t.Parallel()

	auth := &stubAuth{}
	h := New(auth, nil)

	r := chi.NewRouter()
	r.Get("/me", h.Me)
	r.Post("/logout", h.Logout)

	apitest.New().
		Handler(r).
		Get("/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Header("WWW-Authenticate", "Bearer").
		Assert(jsonpath.Equal("$.detail", "Not authenticated")).
		End()

	apitest.New().
		Handler(r).
		Post("/logout").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	require.False(t, auth.called)
}
