package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type purchaseRepo struct {
	*table[models.Purchase, models.PurchasePatch]
}

func newPurchaseRepo(db *pgxpool.Pool) *purchaseRepo {
	return &purchaseRepo{table: &table[models.Purchase, models.PurchasePatch]{
		db:         db,
		name:       "purchases",
		idCol:      "purchase_id",
		cols:       []string{"purchase_id", "purchase_type", "purchase_date", "part_id"},
		insertCols: []string{"purchase_type", "purchase_date", "part_id"},
		values: func(p models.Purchase) []any {
			return []any{string(p.PurchaseType), p.PurchaseDate, p.PartID}
		},
		patch: func(p models.PurchasePatch) ([]string, []any) {
			var ps patchSet
			setIf(&ps, "purchase_type", p.PurchaseType)
			setIf(&ps, "purchase_date", p.PurchaseDate)
			setIf(&ps, "part_id", p.PartID)
			return ps.result()
		},
	}}
}

// ByTypeAndDate — закупки типа typ в интервале [from, to] включительно.
func (r *purchaseRepo) ByTypeAndDate(ctx context.Context, typ models.PurchaseType, from, to models.Date) ([]models.Purchase, error) {
	const op = "storage.postgres.purchases.ByTypeAndDate"

	return r.where(ctx, op, "purchase_type = $1 AND purchase_date BETWEEN $2 AND $3", string(typ), from, to)
}

func (r *purchaseRepo) ByPart(ctx context.Context, partID int64) ([]models.Purchase, error) {
	const op = "storage.postgres.purchases.ByPart"

	return r.where(ctx, op, "part_id = $1", partID)
}

func (r *purchaseRepo) ByType(ctx context.Context, typ models.PurchaseType) ([]models.Purchase, error) {
	const op = "storage.postgres.purchases.ByType"

	return r.where(ctx, op, "purchase_type = $1", string(typ))
}

func (r *purchaseRepo) CountByYear(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.purchases.CountByYear"

	return counts(ctx, r.db, op, `
		SELECT 'Year ' || EXTRACT(YEAR FROM purchase_date)::int, COUNT(purchase_id)
		FROM purchases
		GROUP BY 1
	`)
}

func (r *purchaseRepo) CountByMonth(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.purchases.CountByMonth"

	return counts(ctx, r.db, op, `
		SELECT 'Month ' || EXTRACT(MONTH FROM purchase_date)::int, COUNT(purchase_id)
		FROM purchases
		GROUP BY 1
	`)
}

func (r *purchaseRepo) CountByType(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.purchases.CountByType"

	return counts(ctx, r.db, op, `SELECT purchase_type, COUNT(purchase_id) FROM purchases GROUP BY purchase_type`)
}

var _ storage.PurchaseStorage = (*purchaseRepo)(nil)
