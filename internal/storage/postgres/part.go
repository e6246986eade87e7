package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type partRepo struct {
	*table[models.Part, models.PartPatch]
}

func newPartRepo(db *pgxpool.Pool) *partRepo {
	return &partRepo{table: &table[models.Part, models.PartPatch]{
		db:         db,
		name:       "parts",
		idCol:      "part_id",
		cols:       []string{"part_id", "part_name", "last_id_purchase", "supplier_id"},
		insertCols: []string{"part_name", "last_id_purchase", "supplier_id"},
		values: func(p models.Part) []any {
			return []any{p.PartName, p.LastIDPurchase, p.SupplierID}
		},
		patch: func(p models.PartPatch) ([]string, []any) {
			var ps patchSet
			setIf(&ps, "part_name", p.PartName)
			setIf(&ps, "last_id_purchase", p.LastIDPurchase)
			setIf(&ps, "supplier_id", p.SupplierID)
			return ps.result()
		},
	}}
}

func (r *partRepo) ByPurchase(ctx context.Context, purchaseID int64) ([]models.Part, error) {
	const op = "storage.postgres.parts.ByPurchase"

	return r.where(ctx, op, "last_id_purchase = $1", purchaseID)
}

func (r *partRepo) PurchasedBySupplier(ctx context.Context, supplierID int64) ([]models.Part, error) {
	const op = "storage.postgres.parts.PurchasedBySupplier"

	return r.where(ctx, op, "supplier_id = $1 AND last_id_purchase IS NOT NULL", supplierID)
}

func (r *partRepo) BySupplier(ctx context.Context, supplierID int64) ([]models.Part, error) {
	const op = "storage.postgres.parts.BySupplier"

	return r.where(ctx, op, "supplier_id = $1", supplierID)
}

func (r *partRepo) Purchased(ctx context.Context) ([]models.Part, error) {
	const op = "storage.postgres.parts.Purchased"

	return r.where(ctx, op, "last_id_purchase IS NOT NULL")
}

func (r *partRepo) CountPurchasesBySupplier(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.parts.CountPurchasesBySupplier"

	return counts(ctx, r.db, op,
		`SELECT supplier_id::text, COUNT(last_id_purchase) FROM parts GROUP BY supplier_id`)
}

func (r *partRepo) CountBySupplier(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.parts.CountBySupplier"

	return counts(ctx, r.db, op,
		`SELECT supplier_id::text, COUNT(part_id) FROM parts GROUP BY supplier_id`)
}

func (r *partRepo) CountPurchased(ctx context.Context) (int64, error) {
	const op = "storage.postgres.parts.CountPurchased"

	return scalar(ctx, r.db, op,
		`SELECT COUNT(DISTINCT part_id) FROM parts WHERE last_id_purchase IS NOT NULL`)
}

func (r *partRepo) Count(ctx context.Context) (int64, error) {
	const op = "storage.postgres.parts.Count"

	return scalar(ctx, r.db, op, `SELECT COUNT(part_id) FROM parts`)
}

var _ storage.PartStorage = (*partRepo)(nil)
