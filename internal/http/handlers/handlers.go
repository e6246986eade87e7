package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/warranty-api/internal/catalog"
	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// AuthService — операции аутентификации (реализует service.Service).
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Login(ctx context.Context, username, password string) (models.AccessToken, error)
	WhoAmI(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	auth    AuthService
	catalog *catalog.Catalog
}

func New(auth AuthService, cat *catalog.Catalog) *Handlers {
	return &Handlers{auth: auth, catalog: cat}
}

// MessageResponse — ответ без данных.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
// Любая ошибка разбора превращается в ошибку валидации тела (422).
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		if errors.Is(err, io.EOF) {
			return &models.ValidationError{Field: "body", Reason: "request body is required"}
		}
		return &models.ValidationError{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}

	return nil
}

func fieldRequired(field string) error {
	return &models.ValidationError{Field: field, Reason: "field required"}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &models.ValidationError{Field: name, Reason: "must be an integer"}
	}

	return id, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, &models.ValidationError{Field: name, Reason: "must be an integer"}
	}

	return n, nil
}

// queryInt читает необязательный целый параметр; пустой — def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{Field: name, Reason: "must be an integer"}
	}

	return n, nil
}

func requiredQueryInt(r *http.Request, name string) (int, error) {
	if !r.URL.Query().Has(name) {
		return 0, fieldRequired(name)
	}

	return queryInt(r, name, 0)
}

func requiredQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fieldRequired(name)
	}

	return v, nil
}

func requiredQueryDate(r *http.Request, name string) (models.Date, error) {
	raw, err := requiredQuery(r, name)
	if err != nil {
		return models.Date{}, err
	}

	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, &models.ValidationError{Field: name, Reason: "must be a YYYY-MM-DD date"}
	}

	return d, nil
}

// queryDateRange читает start_date и end_date.
func queryDateRange(r *http.Request) (models.Date, models.Date, error) {
	from, err := requiredQueryDate(r, "start_date")
	if err != nil {
		return models.Date{}, models.Date{}, err
	}

	to, err := requiredQueryDate(r, "end_date")
	if err != nil {
		return models.Date{}, models.Date{}, err
	}

	return from, to, nil
}

// countsHandler отдаёт отчёт-группировку JSON-объектом.
func countsHandler(fn func(context.Context) (storage.Counts, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := fn(r.Context())
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, c)
	}
}

// byIDHandler — выборка по целому параметру пути.
func byIDHandler[V any](param string, fn func(context.Context, int64) (V, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, param)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		v, err := fn(r.Context(), id)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

// byStringHandler — выборка по строковому параметру пути.
func byStringHandler[V any](param string, fn func(context.Context, string) (V, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r.Context(), chi.URLParam(r, param))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

// listHandler — выборка без параметров.
func listHandler[V any](fn func(context.Context) (V, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r.Context())
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

// dateRangeHandler — выборка по start_date/end_date из query.
func dateRangeHandler[V any](fn func(context.Context, models.Date, models.Date) (V, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := queryDateRange(r)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		v, err := fn(r.Context(), from, to)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}
