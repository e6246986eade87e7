package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type Warranties struct {
	*Resource[models.Warranty, models.WarrantyPatch]
	store storage.WarrantyStorage
}

func newWarranties(store storage.WarrantyStorage, lists cache.Store, listTTL time.Duration) *Warranties {
	return &Warranties{
		Resource: newResource[models.Warranty, models.WarrantyPatch](store, lists, "Warranty", "warranties", listTTL, DefaultListLimit),
		store:    store,
	}
}

// ByDateRange — обращения с датой ремонта в [from, to].
func (w *Warranties) ByDateRange(ctx context.Context, from, to models.Date) ([]models.Warranty, error) {
	const op = "catalog.warranty.ByDateRange"

	if err := checkRange(op, from, to); err != nil {
		return nil, err
	}

	items, err := w.store.ByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (w *Warranties) ByVehicle(ctx context.Context, vehicleID int64) ([]models.Warranty, error) {
	return warranties(ctx, "catalog.warranty.ByVehicle", vehicleID, w.store.ByVehicle)
}

func (w *Warranties) ByPart(ctx context.Context, partID int64) ([]models.Warranty, error) {
	return warranties(ctx, "catalog.warranty.ByPart", partID, w.store.ByPart)
}

func (w *Warranties) ByLocation(ctx context.Context, locationID int64) ([]models.Warranty, error) {
	return warranties(ctx, "catalog.warranty.ByLocation", locationID, w.store.ByLocation)
}

func (w *Warranties) CountByVehicle(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.warranty.CountByVehicle", w.store.CountByVehicle)
}

func (w *Warranties) CountByPart(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.warranty.CountByPart", w.store.CountByPart)
}

func (w *Warranties) CountByLocation(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.warranty.CountByLocation", w.store.CountByLocation)
}

// CountByYear — ключи "Year N" по году ремонта.
func (w *Warranties) CountByYear(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.warranty.CountByYear", w.store.CountByYear)
}

func warranties(ctx context.Context, op string, id int64, fn func(context.Context, int64) ([]models.Warranty, error)) ([]models.Warranty, error) {
	items, err := fn(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
