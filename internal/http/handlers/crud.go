package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
)

// crudResource — то, что нужно общим CRUD-маршрутам (реализует catalog.Resource).
type crudResource[T any, P any] interface {
	Entity() string
	Plural() string
	DefaultLimit() int
	List(ctx context.Context, skip, limit int) ([]T, error)
	ByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item T) (*T, error)
	CreateBulk(ctx context.Context, items []T) ([]T, error)
	Update(ctx context.Context, id int64, patch P) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// mountCRUD регистрирует общие маршруты ресурса:
//
//	GET    /          — страница (skip, limit)
//	POST   /create    — одна запись
//	POST   /bulk      — пачка в одной транзакции
//	GET    /{id}      — по id
//	PUT    /{id}      — частичное обновление
//	DELETE /{id}
//
// bulkRows: вернуть созданные записи вместо сообщения.
func mountCRUD[T any, P any](r chi.Router, res crudResource[T, P], idParam string, bulkRows bool) {
	idPath := "/{" + idParam + "}"

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		skip, err := queryInt(r, "skip", 0)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit", res.DefaultLimit())
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		items, err := res.List(r.Context(), skip, limit)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	})

	r.Post("/create", func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decodeStrict(r, &in); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		created, err := res.Create(r.Context(), in)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, created)
	})

	r.Post("/bulk", func(w http.ResponseWriter, r *http.Request) {
		var in []T
		if err := decodeStrict(r, &in); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		created, err := res.CreateBulk(r.Context(), in)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		if bulkRows {
			writeJSON(w, http.StatusOK, created)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Bulk " + res.Plural() + " created successfully"})
	})

	r.Get(idPath, byIDHandler(idParam, res.ByID))

	r.Put(idPath, func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, idParam)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		var patch P
		if err := decodeStrict(r, &patch); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		updated, err := res.Update(r.Context(), id, patch)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	})

	r.Delete(idPath, func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, idParam)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		if err := res.Delete(r.Context(), id); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: res.Entity() + " deleted successfully"})
	})
}
