package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type Vehicles struct {
	*Resource[models.Vehicle, models.VehiclePatch]
	store storage.VehicleStorage
}

func newVehicles(store storage.VehicleStorage, lists cache.Store, listTTL time.Duration) *Vehicles {
	return &Vehicles{
		Resource: newResource[models.Vehicle, models.VehiclePatch](store, lists, "Vehicle", "vehicles", listTTL, DefaultListLimit),
		store:    store,
	}
}

func (v *Vehicles) ByProdDateRange(ctx context.Context, from, to models.Date) ([]models.Vehicle, error) {
	const op = "catalog.vehicle.ByProdDateRange"

	if err := checkRange(op, from, to); err != nil {
		return nil, err
	}

	items, err := v.store.ByProdDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ByModel ищет подстроку в названии модели.
func (v *Vehicles) ByModel(ctx context.Context, model string) ([]models.Vehicle, error) {
	const op = "catalog.vehicle.ByModel"

	items, err := v.store.ByModel(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (v *Vehicles) ByPropulsion(ctx context.Context, propulsion string) ([]models.Vehicle, error) {
	const op = "catalog.vehicle.ByPropulsion"

	p, err := models.ParsePropulsion(propulsion)
	if err != nil {
		return nil, invalidArgument(op, err)
	}

	items, err := v.store.ByPropulsion(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (v *Vehicles) ByYear(ctx context.Context, year int) ([]models.Vehicle, error) {
	const op = "catalog.vehicle.ByYear"

	items, err := v.store.ByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// CountByYearRange — число автомобилей по годам в [from, to].
func (v *Vehicles) CountByYearRange(ctx context.Context, from, to int) (storage.Counts, error) {
	const op = "catalog.vehicle.CountByYearRange"

	if to < from {
		return nil, invalidField(op, "end_year", "must not be less than start_year")
	}

	c, err := v.store.CountByYearRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (v *Vehicles) CountByPropulsion(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.vehicle.CountByPropulsion", v.store.CountByPropulsion)
}

func (v *Vehicles) CountByYear(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.vehicle.CountByYear", v.store.CountByYear)
}

func (v *Vehicles) CountByProdMonth(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.vehicle.CountByProdMonth", v.store.CountByProdMonth)
}
