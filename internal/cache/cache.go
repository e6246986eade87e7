// cache — хранилище ключ/значение с TTL на ключ: сессии и кэш списков.
//
// Промах (ключа нет или истёк TTL) — нормальный исход: (_, false, nil).
// Недоступность хранилища — всегда ошибка, чтобы вызывающий мог отличить
// сбой инфраструктуры от отсутствия сессии.
package cache

//go:generate mockgen -destination=../../mocks/mock_cache.go -package=mocks github.com/pribylovaa/warranty-api/internal/cache Store

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidTTL — TTL не положителен или не поддерживается драйвером.
var ErrInvalidTTL = errors.New("invalid ttl")

// Store — минимальный контракт кэша.
type Store interface {
	// Set сохраняет значение с TTL, молча перезаписывая существующее.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Delete идемпотентен: удаление отсутствующего ключа не ошибка.
	Delete(ctx context.Context, key string) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
	Close() error
}
