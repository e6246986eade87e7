package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// DefaultPurchaseListLimit — у закупок страница по умолчанию меньше остальных.
const DefaultPurchaseListLimit = 10

type Purchases struct {
	*Resource[models.Purchase, models.PurchasePatch]
	store storage.PurchaseStorage
}

func newPurchases(store storage.PurchaseStorage, lists cache.Store, listTTL time.Duration) *Purchases {
	return &Purchases{
		Resource: newResource[models.Purchase, models.PurchasePatch](store, lists, "Purchase", "purchases", listTTL, DefaultPurchaseListLimit),
		store:    store,
	}
}

// ByTypeAndDate — закупки типа typ с датой в [from, to].
func (p *Purchases) ByTypeAndDate(ctx context.Context, typ string, from, to models.Date) ([]models.Purchase, error) {
	const op = "catalog.purchase.ByTypeAndDate"

	t, err := models.ParsePurchaseType(typ)
	if err != nil {
		return nil, invalidArgument(op, err)
	}
	if err := checkRange(op, from, to); err != nil {
		return nil, err
	}

	items, err := p.store.ByTypeAndDate(ctx, t, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (p *Purchases) ByPart(ctx context.Context, partID int64) ([]models.Purchase, error) {
	const op = "catalog.purchase.ByPart"

	items, err := p.store.ByPart(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (p *Purchases) ByType(ctx context.Context, typ string) ([]models.Purchase, error) {
	const op = "catalog.purchase.ByType"

	t, err := models.ParsePurchaseType(typ)
	if err != nil {
		return nil, invalidArgument(op, err)
	}

	items, err := p.store.ByType(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// CountByYear — ключи "Year N".
func (p *Purchases) CountByYear(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.purchase.CountByYear", p.store.CountByYear)
}

// CountByMonth — ключи "Month N".
func (p *Purchases) CountByMonth(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.purchase.CountByMonth", p.store.CountByMonth)
}

func (p *Purchases) CountByType(ctx context.Context) (storage.Counts, error) {
	return counts(ctx, "catalog.purchase.CountByType", p.store.CountByType)
}

// checkRange требует обе даты и from <= to.
func checkRange(op string, from, to models.Date) error {
	if from.IsZero() {
		return invalidField(op, "start_date", "is required")
	}
	if to.IsZero() {
		return invalidField(op, "end_date", "is required")
	}
	if to.Before(from.Time) {
		return invalidField(op, "end_date", "must not be before start_date")
	}

	return nil
}
