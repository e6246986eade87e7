package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type supplierRepo struct {
	*table[models.Supplier, models.SupplierPatch]
}

func newSupplierRepo(db *pgxpool.Pool) *supplierRepo {
	return &supplierRepo{table: &table[models.Supplier, models.SupplierPatch]{
		db:         db,
		name:       "suppliers",
		idCol:      "supplier_id",
		cols:       []string{"supplier_id", "supplier_name", "location_id"},
		insertCols: []string{"supplier_name", "location_id"},
		values: func(s models.Supplier) []any {
			return []any{s.SupplierName, s.LocationID}
		},
		patch: func(p models.SupplierPatch) ([]string, []any) {
			var ps patchSet
			setIf(&ps, "supplier_name", p.SupplierName)
			setIf(&ps, "location_id", p.LocationID)
			return ps.result()
		},
	}}
}

func (r *supplierRepo) ByLocation(ctx context.Context, locationID int64) ([]models.Supplier, error) {
	const op = "storage.postgres.suppliers.ByLocation"

	return r.where(ctx, op, "location_id = $1", locationID)
}

func (r *supplierRepo) ByCountry(ctx context.Context, country string) ([]models.Supplier, error) {
	const op = "storage.postgres.suppliers.ByCountry"

	return r.where(ctx, op,
		"location_id IN (SELECT location_id FROM locations WHERE country = $1)", country)
}

func (r *supplierRepo) ByProvince(ctx context.Context, province string) ([]models.Supplier, error) {
	const op = "storage.postgres.suppliers.ByProvince"

	return r.where(ctx, op,
		"location_id IN (SELECT location_id FROM locations WHERE province = $1)", province)
}

// SearchByName ищет подстроку в имени с учётом регистра.
func (r *supplierRepo) SearchByName(ctx context.Context, name string) ([]models.Supplier, error) {
	const op = "storage.postgres.suppliers.SearchByName"

	return r.where(ctx, op, "strpos(supplier_name, $1) > 0", name)
}

func (r *supplierRepo) UniqueByCountry(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.suppliers.UniqueByCountry"

	return counts(ctx, r.db, op, `
		SELECT l.country, COUNT(DISTINCT s.supplier_id)
		FROM locations l
		JOIN suppliers s ON s.location_id = l.location_id
		GROUP BY l.country
	`)
}

// TopLocations возвращает локации с наибольшим числом поставщиков.
func (r *supplierRepo) TopLocations(ctx context.Context, limit int) ([]models.LocationCount, error) {
	const op = "storage.postgres.suppliers.TopLocations"

	rows, err := r.db.Query(ctx, `
		SELECT location_id, COUNT(supplier_id) AS count
		FROM suppliers
		GROUP BY location_id
		ORDER BY count DESC, location_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LocationCount])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CountPerLocation считает поставщиков только по существующим локациям.
func (r *supplierRepo) CountPerLocation(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.suppliers.CountPerLocation"

	return counts(ctx, r.db, op, `
		SELECT l.location_id::text, COUNT(s.supplier_id)
		FROM locations l
		JOIN suppliers s ON s.location_id = l.location_id
		GROUP BY l.location_id
	`)
}

func (r *supplierRepo) CountByLocation(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.suppliers.CountByLocation"

	return counts(ctx, r.db, op,
		`SELECT location_id::text, COUNT(supplier_id) FROM suppliers GROUP BY location_id`)
}

var _ storage.SupplierStorage = (*supplierRepo)(nil)
