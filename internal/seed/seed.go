// seed заполняет базу правдоподобными тестовыми данными через слой хранилища.
// Порядок вставки повторяет внешние ключи: локации, поставщики, детали,
// закупки, пользователи, автомобили, гарантийные обращения.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/service"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// ErrNothingToReference — зависимая сущность запрошена без родительских строк.
var ErrNothingToReference = errors.New("no parent rows to reference")

// Counts — сколько строк каждой сущности создать.
type Counts struct {
	Locations  int
	Suppliers  int
	Parts      int
	Purchases  int
	Users      int
	Vehicles   int
	Warranties int
}

// DefaultCounts — объём, которого хватает для ручной проверки всех отчётов.
func DefaultCounts() Counts {
	return Counts{
		Locations:  10,
		Suppliers:  10,
		Parts:      20,
		Purchases:  20,
		Users:      10,
		Vehicles:   15,
		Warranties: 30,
	}
}

// Store — всё, что нужно сидеру от хранилища.
type Store interface {
	storage.UserStorage
	storage.CatalogStorage
}

// Seeder генерирует данные. Не потокобезопасен: gofakeit.Faker с фиксированным seed
// используется последовательно.
type Seeder struct {
	store  Store
	hasher service.PasswordHasher
	faker  *gofakeit.Faker
	log    *slog.Logger
	now    func() time.Time
}

// New создаёт сидер. seed=0 — случайная последовательность.
func New(store Store, hasher service.PasswordHasher, seed uint64, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}

	return &Seeder{
		store:  store,
		hasher: hasher,
		faker:  gofakeit.New(seed),
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Report — id созданных строк по сущностям.
type Report struct {
	Locations  []int64
	Suppliers  []int64
	Parts      []int64
	Purchases  []int64
	Users      []int64
	Vehicles   []int64
	Warranties []int64
}

// Run вставляет данные. Каждая сущность пишется одной транзакцией (CreateBulk),
// поэтому при ошибке в базе остаются только целиком вставленные сущности.
func (s *Seeder) Run(ctx context.Context, c Counts) (*Report, error) {
	const op = "seed.Run"

	steps := []struct {
		name string
		fn   func(context.Context, int, *Report) error
		n    int
	}{
		{"locations", s.locations, c.Locations},
		{"suppliers", s.suppliers, c.Suppliers},
		{"parts", s.parts, c.Parts},
		{"purchases", s.purchases, c.Purchases},
		{"users", s.users, c.Users},
		{"vehicles", s.vehicles, c.Vehicles},
		{"warranties", s.warranties, c.Warranties},
	}

	rep := &Report{}
	for _, step := range steps {
		if step.n < 0 {
			return rep, fmt.Errorf("%s: %s: negative count %d", op, step.name, step.n)
		}
		if step.n == 0 {
			continue
		}

		if err := step.fn(ctx, step.n, rep); err != nil {
			return rep, fmt.Errorf("%s: %s: %w", op, step.name, err)
		}
		s.log.Info("seeded", slog.String("entity", step.name), slog.Int("count", step.n))
	}

	return rep, nil
}

func (s *Seeder) locations(ctx context.Context, n int, rep *Report) error {
	f := s.faker
	items := make([]models.Location, n)
	for i := range items {
		items[i] = models.Location{
			Market:   pick(f, []models.Market{models.MarketDomestic, models.MarketInternational}),
			Country:  clip(f.Country(), 50),
			Province: clip(f.State(), 50),
			City:     clip(f.City(), 50),
		}
	}

	created, err := s.store.Locations().CreateBulk(ctx, items)
	if err != nil {
		return err
	}
	for _, l := range created {
		rep.Locations = append(rep.Locations, l.LocationID)
	}

	return nil
}

func (s *Seeder) suppliers(ctx context.Context, n int, rep *Report) error {
	if len(rep.Locations) == 0 {
		return ErrNothingToReference
	}

	f := s.faker
	items := make([]models.Supplier, n)
	for i := range items {
		items[i] = models.Supplier{
			SupplierName: clip(f.Company(), 50),
			LocationID:   pick(f, rep.Locations),
		}
	}

	created, err := s.store.Suppliers().CreateBulk(ctx, items)
	if err != nil {
		return err
	}
	for _, sp := range created {
		rep.Suppliers = append(rep.Suppliers, sp.SupplierID)
	}

	return nil
}

// parts вставляет детали без last_id_purchase: его проставляет purchases.
func (s *Seeder) parts(ctx context.Context, n int, rep *Report) error {
	if len(rep.Suppliers) == 0 {
		return ErrNothingToReference
	}

	f := s.faker
	items := make([]models.Part, n)
	for i := range items {
		items[i] = models.Part{
			PartName:   f.Noun(),
			SupplierID: pick(f, rep.Suppliers),
		}
	}

	created, err := s.store.Parts().CreateBulk(ctx, items)
	if err != nil {
		return err
	}
	for _, p := range created {
		rep.Parts = append(rep.Parts, p.PartID)
	}

	return nil
}

// purchases создаёт закупки за последние пять лет и отмечает у каждой
// купленной детали последнюю закупку.
func (s *Seeder) purchases(ctx context.Context, n int, rep *Report) error {
	if len(rep.Parts) == 0 {
		return ErrNothingToReference
	}

	f := s.faker
	now := s.now()
	items := make([]models.Purchase, n)
	for i := range items {
		items[i] = models.Purchase{
			PurchaseType: pick(f, []models.PurchaseType{models.PurchaseNew, models.PurchaseUsed, models.PurchaseRefurbished}),
			PurchaseDate: s.date(now.AddDate(-5, 0, 0), now),
			PartID:       pick(f, rep.Parts),
		}
	}

	created, err := s.store.Purchases().CreateBulk(ctx, items)
	if err != nil {
		return err
	}

	last := make(map[int64]int64, len(created))
	for _, p := range created {
		rep.Purchases = append(rep.Purchases, p.PurchaseID)
		if p.PurchaseID > last[p.PartID] {
			last[p.PartID] = p.PurchaseID
		}
	}

	for _, partID := range rep.Parts {
		purchaseID, ok := last[partID]
		if !ok {
			continue
		}
		if _, err := s.store.Parts().Update(ctx, partID, models.PartPatch{LastIDPurchase: &purchaseID}); err != nil {
			return fmt.Errorf("part %d: %w", partID, err)
		}
	}

	return nil
}

// users хранит только bcrypt-хэш случайного пароля; сам пароль нигде не остаётся.
func (s *Seeder) users(ctx context.Context, n int, rep *Report) error {
	f := s.faker
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(f.Username()), i+1)
		email := fmt.Sprintf("%s@%s", username, strings.ToLower(f.DomainName()))

		digest, err := s.hasher.Hash(f.Password(true, true, true, false, false, 16))
		if err != nil {
			return err
		}

		id, err := s.store.SaveUser(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: digest,
		})
		if err != nil {
			return fmt.Errorf("user %d: %w", i+1, err)
		}
		rep.Users = append(rep.Users, id)
	}

	return nil
}

func (s *Seeder) vehicles(ctx context.Context, n int, rep *Report) error {
	f := s.faker
	now := s.now()
	items := make([]models.Vehicle, n)
	for i := range items {
		items[i] = models.Vehicle{
			Model:      capitalize(f.Noun()),
			ProdDate:   s.date(now.AddDate(-10, 0, 0), now),
			Year:       f.Number(2000, 2024),
			Propulsion: pick(f, propulsions),
		}
	}

	created, err := s.store.Vehicles().CreateBulk(ctx, items)
	if err != nil {
		return err
	}
	for _, v := range created {
		rep.Vehicles = append(rep.Vehicles, v.VehicleID)
	}

	return nil
}

// warranties — обращения за текущее десятилетие со ссылками на всё созданное выше.
func (s *Seeder) warranties(ctx context.Context, n int, rep *Report) error {
	if len(rep.Vehicles) == 0 || len(rep.Parts) == 0 || len(rep.Locations) == 0 || len(rep.Purchases) == 0 {
		return ErrNothingToReference
	}

	f := s.faker
	now := s.now()
	decade := time.Date(now.Year()-now.Year()%10, time.January, 1, 0, 0, 0, 0, time.UTC)

	items := make([]models.Warranty, n)
	for i := range items {
		complaint := s.sentence()
		comment := s.sentence()
		issue := clip(f.Noun(), 50)

		items[i] = models.Warranty{
			VehicleID:       pick(f, rep.Vehicles),
			RepairDate:      s.date(decade, now),
			ClientComplaint: &complaint,
			TechComment:     &comment,
			PartID:          pick(f, rep.Parts),
			ClassifiedIssue: &issue,
			LocationID:      pick(f, rep.Locations),
			PurchaseID:      pick(f, rep.Purchases),
		}
	}

	created, err := s.store.Warranties().CreateBulk(ctx, items)
	if err != nil {
		return err
	}
	for _, w := range created {
		rep.Warranties = append(rep.Warranties, w.ClaimKey)
	}

	return nil
}

func (s *Seeder) date(from, to time.Time) models.Date {
	t := s.faker.DateRange(from, to)
	return models.NewDate(t.Year(), t.Month(), t.Day())
}

func (s *Seeder) sentence() string {
	f := s.faker
	return capitalize(fmt.Sprintf("%s %s %s %s.", f.Adjective(), f.Noun(), f.Verb(), f.Adverb()))
}

var propulsions = []models.Propulsion{
	models.PropulsionGasoline, models.PropulsionDiesel, models.PropulsionElectric, models.PropulsionHybrid,
}

func pick[T any](f *gofakeit.Faker, from []T) T {
	return from[f.Number(0, len(from)-1)]
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
