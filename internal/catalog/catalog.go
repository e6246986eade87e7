// catalog — прикладной слой справочников гарантийного датасета:
// валидация входа, маппинг ошибок хранилища и кэш страниц списков.
//
// Ошибки слоя:
//   - ErrInvalidArgument (обычно вместе с *models.ValidationError) — HTTP 422;
//   - *NotFoundError — HTTP 404 "<Entity> not found";
//   - storage.ErrInvalidReference — HTTP 400;
//   - storage.ErrInUse — HTTP 409;
//   - всё остальное — инфраструктурный сбой, HTTP 500.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// ErrInvalidArgument — параметры запроса не прошли проверку. HTTP 422.
var ErrInvalidArgument = errors.New("invalid argument")

// NotFoundError — запись сущности Entity не найдена. HTTP 404.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// Unwrap позволяет проверять errors.Is(err, storage.ErrNotFound).
func (e *NotFoundError) Unwrap() error { return storage.ErrNotFound }

// Catalog собирает ресурсы всех сущностей.
type Catalog struct {
	Locations  *Locations
	Suppliers  *Suppliers
	Parts      *Parts
	Purchases  *Purchases
	Vehicles   *Vehicles
	Warranties *Warranties
}

// New связывает ресурсы с хранилищем и кэшем списков.
func New(store storage.CatalogStorage, lists cache.Store, listTTL time.Duration) *Catalog {
	return &Catalog{
		Locations:  newLocations(store.Locations(), lists, listTTL),
		Suppliers:  newSuppliers(store.Suppliers(), lists, listTTL),
		Parts:      newParts(store.Parts(), lists, listTTL),
		Purchases:  newPurchases(store.Purchases(), lists, listTTL),
		Vehicles:   newVehicles(store.Vehicles(), lists, listTTL),
		Warranties: newWarranties(store.Warranties(), lists, listTTL),
	}
}

// invalidArgument оборачивает ошибку валидации так, чтобы сработали
// и errors.Is(ErrInvalidArgument), и errors.As(*models.ValidationError).
func invalidArgument(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
}

func invalidField(op, field, reason string) error {
	return invalidArgument(op, &models.ValidationError{Field: field, Reason: reason})
}
