package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/warranty-api/internal/storage"
)

type Storage struct {
	db *pgxpool.Pool

	locations  *locationRepo
	suppliers  *supplierRepo
	parts      *partRepo
	purchases  *purchaseRepo
	vehicles   *vehicleRepo
	warranties *warrantyRepo
}

// New создает новое подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newStorage(db), nil
}

func newStorage(db *pgxpool.Pool) *Storage {
	return &Storage{
		db:         db,
		locations:  newLocationRepo(db),
		suppliers:  newSupplierRepo(db),
		parts:      newPartRepo(db),
		purchases:  newPurchaseRepo(db),
		vehicles:   newVehicleRepo(db),
		warranties: newWarrantyRepo(db),
	}
}

// Pool отдаёт пул для миграций.
func (s *Storage) Pool() *pgxpool.Pool { return s.db }

// Ping используется readiness-пробой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

func (s *Storage) Locations() storage.LocationStorage  { return s.locations }
func (s *Storage) Suppliers() storage.SupplierStorage  { return s.suppliers }
func (s *Storage) Parts() storage.PartStorage          { return s.parts }
func (s *Storage) Purchases() storage.PurchaseStorage  { return s.purchases }
func (s *Storage) Vehicles() storage.VehicleStorage    { return s.vehicles }
func (s *Storage) Warranties() storage.WarrantyStorage { return s.warranties }

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
