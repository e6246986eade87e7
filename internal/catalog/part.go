package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type Parts struct {
	*Resource[models.Part, models.PartPatch]
	store storage.PartStorage
}

func newParts(store storage.PartStorage, lists cache.Store, listTTL time.Duration) *Parts {
	return &Parts{
		Resource: newResource[models.Part, models.PartPatch](store, lists, "Part", "parts", listTTL, DefaultListLimit),
		store:    store,
	}
}

// ByPurchase — детали, у которых last_id_purchase совпадает с purchaseID.
func (p *Parts) ByPurchase(ctx context.Context, purchaseID int64) ([]models.Part, error) {
	return parts(ctx, "catalog.part.ByPurchase", purchaseID, p.store.ByPurchase)
}

func (p *Parts) PurchasedBySupplier(ctx context.Context, supplierID int64) ([]models.Part, error) {
	return parts(ctx, "catalog.part.PurchasedBySupplier", supplierID, p.store.PurchasedBySupplier)
}

func (p *Parts) BySupplier(ctx context.Context, supplierID int64) ([]models.Part, error) {
	return parts(ctx, "catalog.part.BySupplier", supplierID, p.store.BySupplier)
}

// Purchased — детали, закупавшиеся хотя бы раз.
func (p *Parts) Purchased(ctx context.Context) ([]models.Part, error) {
	const op = "catalog.part.Purchased"

	items, err := p.store.Purchased(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (p *Parts) CountPurchasesBySupplier(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.part.CountPurchasesBySupplier", p.store.CountPurchasesBySupplier)
}

func (p *Parts) CountBySupplier(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.part.CountBySupplier", p.store.CountBySupplier)
}

func (p *Parts) CountPurchased(ctx context.Context) (int64, error) {
	const op = "catalog.part.CountPurchased"

	n, err := p.store.CountPurchased(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (p *Parts) Count(ctx context.Context) (int64, error) {
	const op = "catalog.part.Count"

	n, err := p.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func parts(ctx context.Context, op string, id int64, fn func(context.Context, int64) ([]models.Part, error)) ([]models.Part, error) {
	items, err := fn(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
