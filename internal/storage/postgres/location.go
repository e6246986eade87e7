package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

type locationRepo struct {
	*table[models.Location, models.LocationPatch]
}

func newLocationRepo(db *pgxpool.Pool) *locationRepo {
	return &locationRepo{table: &table[models.Location, models.LocationPatch]{
		db:         db,
		name:       "locations",
		idCol:      "location_id",
		cols:       []string{"location_id", "market", "country", "province", "city"},
		insertCols: []string{"market", "country", "province", "city"},
		values: func(l models.Location) []any {
			return []any{string(l.Market), l.Country, l.Province, l.City}
		},
		patch: func(p models.LocationPatch) ([]string, []any) {
			var ps patchSet
			setIf(&ps, "market", p.Market)
			setIf(&ps, "country", p.Country)
			setIf(&ps, "province", p.Province)
			setIf(&ps, "city", p.City)
			return ps.result()
		},
	}}
}

func (r *locationRepo) ByMarket(ctx context.Context, market models.Market) ([]models.Location, error) {
	const op = "storage.postgres.locations.ByMarket"

	return r.where(ctx, op, "market = $1", string(market))
}

// Cities возвращает города страны как есть, с повторами.
func (r *locationRepo) Cities(ctx context.Context, country string) ([]string, error) {
	const op = "storage.postgres.locations.Cities"

	return texts(ctx, r.db, op, `SELECT city FROM locations WHERE country = $1 ORDER BY location_id`, country)
}

func (r *locationRepo) Provinces(ctx context.Context, country string) ([]string, error) {
	const op = "storage.postgres.locations.Provinces"

	return texts(ctx, r.db, op, `SELECT DISTINCT province FROM locations WHERE country = $1 ORDER BY province`, country)
}

func (r *locationRepo) CitiesByProvince(ctx context.Context, country, province string) ([]string, error) {
	const op = "storage.postgres.locations.CitiesByProvince"

	return texts(ctx, r.db, op,
		`SELECT DISTINCT city FROM locations WHERE country = $1 AND province = $2 ORDER BY city`, country, province)
}

func (r *locationRepo) CountByCountry(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.locations.CountByCountry"

	return counts(ctx, r.db, op, `SELECT country, COUNT(location_id) FROM locations GROUP BY country`)
}

func (r *locationRepo) UniqueCitiesByCountry(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.locations.UniqueCitiesByCountry"

	return counts(ctx, r.db, op, `SELECT country, COUNT(DISTINCT city) FROM locations GROUP BY country`)
}

func (r *locationRepo) ProvincesCountByCountry(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.locations.ProvincesCountByCountry"

	return counts(ctx, r.db, op, `SELECT country, COUNT(DISTINCT province) FROM locations GROUP BY country`)
}

func (r *locationRepo) CountByMarket(ctx context.Context) (storage.Counts, error) {
	const op = "storage.postgres.locations.CountByMarket"

	return counts(ctx, r.db, op, `SELECT market, COUNT(*) FROM locations GROUP BY market`)
}

var _ storage.LocationStorage = (*locationRepo)(nil)
