// storage описывает контракты хранилища: учётные записи пользователей
// и справочники гарантийного датасета.
package storage

//go:generate mockgen -destination=../../mocks/mock_storage.go -package=mocks github.com/pribylovaa/warranty-api/internal/storage UserStorage

import (
	"context"
	"errors"

	"github.com/pribylovaa/warranty-api/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrUsernameExists — нарушение уникальности username.
	ErrUsernameExists = errors.New("username already exists")
	// ErrEmailExists — нарушение уникальности email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidReference — запись ссылается на несуществующую родительскую строку.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInUse — на удаляемую запись ссылаются другие строки.
	ErrInUse = errors.New("referenced by other records")
)

// UserStorage — хранилище учётных записей.
type UserStorage interface {
	// SaveUser сохраняет пользователя и возвращает присвоенный id.
	SaveUser(ctx context.Context, user *models.User) (int64, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Repository — общий CRUD над сущностью T с частичным обновлением P.
type Repository[T any, P any] interface {
	// List возвращает страницу, упорядоченную по первичному ключу.
	List(ctx context.Context, skip, limit int) ([]T, error)
	ByID(ctx context.Context, id int64) (*T, error)
	// Create вставляет запись и возвращает её с присвоенным id.
	Create(ctx context.Context, item T) (*T, error)
	// CreateBulk вставляет все записи в одной транзакции.
	CreateBulk(ctx context.Context, items []T) ([]T, error)
	// Update меняет только заданные в patch поля.
	Update(ctx context.Context, id int64, patch P) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Counts — результат группировки: значение группы (строкой) -> количество.
type Counts map[string]int64

type LocationStorage interface {
	Repository[models.Location, models.LocationPatch]
	ByMarket(ctx context.Context, market models.Market) ([]models.Location, error)
	Cities(ctx context.Context, country string) ([]string, error)
	Provinces(ctx context.Context, country string) ([]string, error)
	CitiesByProvince(ctx context.Context, country, province string) ([]string, error)
	CountByCountry(ctx context.Context) (Counts, error)
	UniqueCitiesByCountry(ctx context.Context) (Counts, error)
	ProvincesCountByCountry(ctx context.Context) (Counts, error)
	CountByMarket(ctx context.Context) (Counts, error)
}

type SupplierStorage interface {
	Repository[models.Supplier, models.SupplierPatch]
	ByLocation(ctx context.Context, locationID int64) ([]models.Supplier, error)
	ByCountry(ctx context.Context, country string) ([]models.Supplier, error)
	ByProvince(ctx context.Context, province string) ([]models.Supplier, error)
	SearchByName(ctx context.Context, name string) ([]models.Supplier, error)
	UniqueByCountry(ctx context.Context) (Counts, error)
	TopLocations(ctx context.Context, limit int) ([]models.LocationCount, error)
	CountPerLocation(ctx context.Context) (Counts, error)
	CountByLocation(ctx context.Context) (Counts, error)
}

type PartStorage interface {
	Repository[models.Part, models.PartPatch]
	ByPurchase(ctx context.Context, purchaseID int64) ([]models.Part, error)
	PurchasedBySupplier(ctx context.Context, supplierID int64) ([]models.Part, error)
	BySupplier(ctx context.Context, supplierID int64) ([]models.Part, error)
	Purchased(ctx context.Context) ([]models.Part, error)
	CountPurchasesBySupplier(ctx context.Context) (Counts, error)
	CountBySupplier(ctx context.Context) (Counts, error)
	CountPurchased(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type PurchaseStorage interface {
	Repository[models.Purchase, models.PurchasePatch]
	ByTypeAndDate(ctx context.Context, typ models.PurchaseType, from, to models.Date) ([]models.Purchase, error)
	ByPart(ctx context.Context, partID int64) ([]models.Purchase, error)
	ByType(ctx context.Context, typ models.PurchaseType) ([]models.Purchase, error)
	CountByYear(ctx context.Context) (Counts, error)
	CountByMonth(ctx context.Context) (Counts, error)
	CountByType(ctx context.Context) (Counts, error)
}

type VehicleStorage interface {
	Repository[models.Vehicle, models.VehiclePatch]
	ByProdDateRange(ctx context.Context, from, to models.Date) ([]models.Vehicle, error)
	ByModel(ctx context.Context, model string) ([]models.Vehicle, error)
	ByPropulsion(ctx context.Context, p models.Propulsion) ([]models.Vehicle, error)
	ByYear(ctx context.Context, year int) ([]models.Vehicle, error)
	CountByYearRange(ctx context.Context, from, to int) (Counts, error)
	CountByPropulsion(ctx context.Context) (Counts, error)
	CountByYear(ctx context.Context) (Counts, error)
	CountByProdMonth(ctx context.Context) (Counts, error)
}

type WarrantyStorage interface {
	Repository[models.Warranty, models.WarrantyPatch]
	ByDateRange(ctx context.Context, from, to models.Date) ([]models.Warranty, error)
	ByVehicle(ctx context.Context, vehicleID int64) ([]models.Warranty, error)
	ByPart(ctx context.Context, partID int64) ([]models.Warranty, error)
	ByLocation(ctx context.Context, locationID int64) ([]models.Warranty, error)
	CountByVehicle(ctx context.Context) (Counts, error)
	CountByPart(ctx context.Context) (Counts, error)
	CountByLocation(ctx context.Context) (Counts, error)
	CountByYear(ctx context.Context) (Counts, error)
}

// CatalogStorage объединяет хранилища справочников.
type CatalogStorage interface {
	Locations() LocationStorage
	Suppliers() SupplierStorage
	Parts() PartStorage
	Purchases() PurchaseStorage
	Vehicles() VehicleStorage
	Warranties() WarrantyStorage
}

// Storage задаёт полный контракт работы с БД.
type Storage interface {
	UserStorage
	CatalogStorage
	Ping(ctx context.Context) error
	Close()
}
