package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type warrantyRepo struct {
	*table[models.Warranty, models.WarrantyPatch]
}

func newWarrantyRepo(db *pgxpool.Pool) *warrantyRepo {
	return &warrantyRepo{table: &table[models.Warranty, models.WarrantyPatch]{
		db:    db,
		name:  "warranties",
		idCol: "claim_key",
		cols: []string{"claim_key", "vehicle_id", "repair_date", "client_complaint", "tech_comment",
			"part_id", "classified_issue", "location_id", "purchase_id"},
		insertCols: []string{"vehicle_id", "repair_date", "client_complaint", "tech_comment",
			"part_id", "classified_issue", "location_id", "purchase_id"},
		values: func(w models.Warranty) []any {
			return []any{w.VehicleID, w.RepairDate, w.ClientComplaint, w.TechComment,
				w.PartID, w.ClassifiedIssue, w.LocationID, w.PurchaseID}
		},
		patch: func(p models.WarrantyPatch) ([]string, []any) {
			var ps patchSet
			setIf(&ps, "vehicle_id", p.VehicleID)
			setIf(&ps, "repair_date", p.RepairDate)
			setIf(&ps, "client_complaint", p.ClientComplaint)
			setIf(&ps, "tech_comment", p.TechComment)
			setIf(&ps, "part_id", p.PartID)
			setIf(&ps, "classified_issue", p.ClassifiedIssue)
			setIf(&ps, "location_id", p.LocationID)
			setIf(&ps, "purchase_id", p.PurchaseID)
			return ps.result()
		},
	}}
}

func (r *warrantyRepo) ByDateRange(ctx context.Context, from, to models.Date) ([]models.Warranty, error) {
	const op = "storage.postgres.warranties.ByDateRange"

	return r.where(ctx, op, "repair_date >= $1 AND repair_date <= $2", from, to)
}

func (r *warrantyRepo) ByVehicle(ctx context.Context, vehicleID int64) ([]models.Warranty, error) {
	const op = "storage.postgres.warranties.ByVehicle"

	return r.where(ctx, op, "vehicle_id = $1", vehicleID)
}

func (r *warrantyRepo) ByPart(ctx context.Context, partID int64) ([]models.Warranty, error) {
	const op = "storage.postgres.warranties.ByPart"

	return r.where(ctx, op, "part_id = $1", partID)
}

func (r *warrantyRepo) ByLocation(ctx context.Context, locationID int64) ([]models.Warranty, error) {
	const op = "storage.postgres.warranties.ByLocation"

	return r.where(ctx, op, "location_id = $1", locationID)
}

func (r *warrantyRepo) CountByVehicle(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.warranties.CountByVehicle"

	return counts(ctx, r.db, op,
		`SELECT vehicle_id::text, COUNT(claim_key) FROM warranties GROUP BY vehicle_id`)
}

func (r *warrantyRepo) CountByPart(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.warranties.CountByPart"

	return counts(ctx, r.db, op,
		`SELECT part_id::text, COUNT(claim_key) FROM warranties GROUP BY part_id`)
}

func (r *warrantyRepo) CountByLocation(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.warranties.CountByLocation"

	return counts(ctx, r.db, op,
		`SELECT location_id::text, COUNT(claim_key) FROM warranties GROUP BY location_id`)
}

func (r *warrantyRepo) CountByYear(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.warranties.CountByYear"

	return counts(ctx, r.db, op, `
		SELECT 'Year ' || EXTRACT(YEAR FROM repair_date)::int, COUNT(claim_key)
		FROM warranties
		GROUP BY 1
	`)
}

var _ storage.WarrantyStorage = (*warrantyRepo)(nil)
