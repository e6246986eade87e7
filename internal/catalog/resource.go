package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/pkg/log"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// DefaultListLimit — размер страницы, если клиент не указал limit.
const DefaultListLimit = 1000

// Validator — сущность или патч, умеющие проверить себя.
type Validator interface {
	Validate() error
}

// Resource — CRUD над одной сущностью поверх storage.Repository.
//
// List читает страницы через кэш: ключ "<plural>_skip_<n>_limit_<m>",
// TTL listTTL. Записи не сбрасывают кэш, устаревание ограничено TTL.
// Сбой кэша считается ошибкой запроса, как и для сессий.
type Resource[T Validator, P Validator] struct {
	repo         storage.Repository[T, P]
	lists        cache.Store
	entity       string
	plural       string
	listTTL      time.Duration
	defaultLimit int
}

func newResource[T Validator, P Validator](
	repo storage.Repository[T, P],
	lists cache.Store,
	entity, plural string,
	listTTL time.Duration,
	defaultLimit int,
) *Resource[T, P] {
	return &Resource[T, P]{
		repo:         repo,
		lists:        lists,
		entity:       entity,
		plural:       plural,
		listTTL:      listTTL,
		defaultLimit: defaultLimit,
	}
}

// Entity — имя сущности в ответах ("Location").
func (r *Resource[T, P]) Entity() string { return r.entity }

// Plural — имя коллекции в путях и ключах кэша ("locations").
func (r *Resource[T, P]) Plural() string { return r.plural }

// DefaultLimit — размер страницы по умолчанию.
func (r *Resource[T, P]) DefaultLimit() int { return r.defaultLimit }

// ListCacheKey строит ключ кэша страницы.
func (r *Resource[T, P]) ListCacheKey(skip, limit int) string {
	return fmt.Sprintf("%s_skip_%d_limit_%d", r.plural, skip, limit)
}

// List возвращает страницу, упорядоченную по id.
func (r *Resource[T, P]) List(ctx context.Context, skip, limit int) ([]T, error) {
	const op = "catalog.resource.List"

	if skip < 0 {
		return nil, invalidField(op, "skip", "must be non-negative")
	}
	if limit < 1 {
		return nil, invalidField(op, "limit", "must be positive")
	}

	key := r.ListCacheKey(skip, limit)
	lg := log.From(ctx)

	raw, ok, err := r.lists.Get(ctx, key)
	if err != nil {
		lg.Error("list_cache_get_failed", slog.String("op", op), slog.String("key", key), log.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		var items []T
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items, nil
		}
		// Битую запись перезаписываем свежей страницей.
		lg.Warn("list_cache_corrupt", slog.String("key", key))
	}

	items, err := r.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.lists.Set(ctx, key, string(payload), r.listTTL); err != nil {
		lg.Error("list_cache_set_failed", slog.String("op", op), slog.String("key", key), log.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *Resource[T, P]) ByID(ctx context.Context, id int64) (*T, error) {
	const op = "catalog.resource.ByID"

	item, err := r.repo.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, r.notFound(err))
	}

	return item, nil
}

// Create проверяет и вставляет запись; id назначает хранилище.
func (r *Resource[T, P]) Create(ctx context.Context, item T) (*T, error) {
	const op = "catalog.resource.Create"

	if err := item.Validate(); err != nil {
		return nil, invalidArgument(op, err)
	}

	created, err := r.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("record_created", slog.String("entity", r.entity))

	return created, nil
}

// CreateBulk вставляет все записи или ни одной.
func (r *Resource[T, P]) CreateBulk(ctx context.Context, items []T) ([]T, error) {
	const op = "catalog.resource.CreateBulk"

	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w: item %d: %w", op, ErrInvalidArgument, i, err)
		}
	}

	created, err := r.repo.CreateBulk(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("records_created", slog.String("entity", r.entity), slog.Int("count", len(created)))

	return created, nil
}

// Update применяет только заданные в patch поля.
func (r *Resource[T, P]) Update(ctx context.Context, id int64, patch P) (*T, error) {
	const op = "catalog.resource.Update"

	if err := patch.Validate(); err != nil {
		return nil, invalidArgument(op, err)
	}

	updated, err := r.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, r.notFound(err))
	}

	return updated, nil
}

func (r *Resource[T, P]) Delete(ctx context.Context, id int64) error {
	const op = "catalog.resource.Delete"

	if err := r.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, r.notFound(err))
	}

	log.From(ctx).Info("record_deleted", slog.String("entity", r.entity), slog.Int64("id", id))

	return nil
}

func (r *Resource[T, P]) notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Entity: r.entity}
	}

	return err
}
