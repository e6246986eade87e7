package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type vehicleRepo struct {
	*table[models.Vehicle, models.VehiclePatch]
}

func newVehicleRepo(db *pgxpool.Pool) *vehicleRepo {
	return &vehicleRepo{table: &table[models.Vehicle, models.VehiclePatch]{
		db:         db,
		name:       "vehicles",
		idCol:      "vehicle_id",
		cols:       []string{"vehicle_id", "model", "prod_date", "year", "propulsion"},
		insertCols: []string{"model", "prod_date", "year", "propulsion"},
		values: func(v models.Vehicle) []any {
			return []any{v.Model, v.ProdDate, v.Year, string(v.Propulsion)}
		},
		patch: func(p models.VehiclePatch) ([]string, []any) {
			var ps patchSet
			setIf(&ps, "model", p.Model)
			setIf(&ps, "prod_date", p.ProdDate)
			setIf(&ps, "year", p.Year)
			setIf(&ps, "propulsion", p.Propulsion)
			return ps.result()
		},
	}}
}

func (r *vehicleRepo) ByProdDateRange(ctx context.Context, from, to models.Date) ([]models.Vehicle, error) {
	const op = "storage.postgres.vehicles.ByProdDateRange"

	return r.where(ctx, op, "prod_date >= $1 AND prod_date <= $2", from, to)
}

// ByModel ищет подстроку в названии модели.
func (r *vehicleRepo) ByModel(ctx context.Context, model string) ([]models.Vehicle, error) {
	const op = "storage.postgres.vehicles.ByModel"

	return r.where(ctx, op, "strpos(model, $1) > 0", model)
}

func (r *vehicleRepo) ByPropulsion(ctx context.Context, p models.Propulsion) ([]models.Vehicle, error) {
	const op = "storage.postgres.vehicles.ByPropulsion"

	return r.where(ctx, op, "propulsion = $1", string(p))
}

func (r *vehicleRepo) ByYear(ctx context.Context, year int) ([]models.Vehicle, error) {
	const op = "storage.postgres.vehicles.ByYear"

	return r.where(ctx, op, "year = $1", year)
}

func (r *vehicleRepo) CountByYearRange(ctx context.Context, from, to int) (storage.Counts, error) {
	const op = "storage.postgres.vehicles.CountByYearRange"

	return counts(ctx, r.db, op, `
		SELECT year::text, COUNT(vehicle_id)
		FROM vehicles
		WHERE year >= $1 AND year <= $2
		GROUP BY year
	`, from, to)
}

func (r *vehicleRepo) CountByPropulsion(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.vehicles.CountByPropulsion"

	return counts(ctx, r.db, op, `SELECT propulsion, COUNT(vehicle_id) FROM vehicles GROUP BY propulsion`)
}

func (r *vehicleRepo) CountByYear(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.vehicles.CountByYear"

	return counts(ctx, r.db, op, `SELECT year::text, COUNT(vehicle_id) FROM vehicles GROUP BY year`)
}

func (r *vehicleRepo) CountByProdMonth(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.vehicles.CountByProdMonth"

	return counts(ctx, r.db, op, `
		SELECT 'Month ' || EXTRACT(MONTH FROM prod_date)::int, COUNT(vehicle_id)
		FROM vehicles
		GROUP BY 1
	`)
}

var _ storage.VehicleStorage = (*vehicleRepo)(nil)
