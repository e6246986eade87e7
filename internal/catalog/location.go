package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type Locations struct {
	*Resource[models.Location, models.LocationPatch]
	store storage.LocationStorage
}

func newLocations(store storage.LocationStorage, lists cache.Store, listTTL time.Duration) *Locations {
	return &Locations{
		Resource: newResource[models.Location, models.LocationPatch](store, lists, "Location", "locations", listTTL, DefaultListLimit),
		store:    store,
	}
}

// ByMarket принимает значение из пути: вне Domestic/International — ErrInvalidArgument.
func (l *Locations) ByMarket(ctx context.Context, market string) ([]models.Location, error) {
	const op = "catalog.location.ByMarket"

	m, err := models.ParseMarket(market)
	if err != nil {
		return nil, invalidArgument(op, err)
	}

	items, err := l.store.ByMarket(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Cities — различные города страны.
func (l *Locations) Cities(ctx context.Context, country string) ([]string, error) {
	const op = "catalog.location.Cities"

	cities, err := l.store.Cities(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cities, nil
}

// Provinces — различные провинции страны.
func (l *Locations) Provinces(ctx context.Context, country string) ([]string, error) {
	const op = "catalog.location.Provinces"

	provinces, err := l.store.Provinces(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return provinces, nil
}

func (l *Locations) CitiesByProvince(ctx context.Context, country, province string) ([]string, error) {
	const op = "catalog.location.CitiesByProvince"

	cities, err := l.store.CitiesByProvince(ctx, country, province)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cities, nil
}

func (l *Locations) CountByCountry(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.location.CountByCountry", l.store.CountByCountry)
}

func (l *Locations) UniqueCitiesByCountry(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.location.UniqueCitiesByCountry", l.store.UniqueCitiesByCountry)
}

func (l *Locations) ProvincesCountByCountry(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.location.ProvincesCountByCountry", l.store.ProvincesCountByCountry)
}

func (l *Locations) CountByMarket(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.location.CountByMarket", l.store.CountByMarket)
}

// counts — общая обёртка для отчётов-группировок.
func counts(ctx context.Context, op string, fn func(context.Context) (storage.Counts, error)) (storage.Counts, error) {
	c, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}
