package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// TopLocationsLimit — сколько локаций возвращает TopLocations.
const TopLocationsLimit = 5

type Suppliers struct {
	*Resource[models.Supplier, models.SupplierPatch]
	store storage.SupplierStorage
}

func newSuppliers(store storage.SupplierStorage, lists cache.Store, listTTL time.Duration) *Suppliers {
	return &Suppliers{
		Resource: newResource[models.Supplier, models.SupplierPatch](store, lists, "Supplier", "suppliers", listTTL, DefaultListLimit),
		store:    store,
	}
}

func (s *Suppliers) ByLocation(ctx context.Context, locationID int64) ([]models.Supplier, error) {
	const op = "catalog.supplier.ByLocation"

	items, err := s.store.ByLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ByCountry и ByProvince фильтруют по локации поставщика.
func (s *Suppliers) ByCountry(ctx context.Context, country string) ([]models.Supplier, error) {
	const op = "catalog.supplier.ByCountry"

	items, err := s.store.ByCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *Suppliers) ByProvince(ctx context.Context, province string) ([]models.Supplier, error) {
	const op = "catalog.supplier.ByProvince"

	items, err := s.store.ByProvince(ctx, province)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// SearchByName ищет подстроку в имени; пустой запрос — ErrInvalidArgument.
func (s *Suppliers) SearchByName(ctx context.Context, name string) ([]models.Supplier, error) {
	const op = "catalog.supplier.SearchByName"

	if strings.TrimSpace(name) == "" {
		return nil, invalidField(op, "name", "must not be empty")
	}

	items, err := s.store.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *Suppliers) UniqueByCountry(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.supplier.UniqueByCountry", s.store.UniqueByCountry)
}

// TopLocations — локации с наибольшим числом поставщиков, по убыванию.
func (s *Suppliers) TopLocations(ctx context.Context) ([]models.LocationCount, error) {
	const op = "catalog.supplier.TopLocations"

	top, err := s.store.TopLocations(ctx, TopLocationsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return top, nil
}

func (s *Suppliers) CountPerLocation(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.supplier.CountPerLocation", s.store.CountPerLocation)
}

func (s *Suppliers) CountByLocation(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.supplier.CountByLocation", s.store.CountByLocation)
}
