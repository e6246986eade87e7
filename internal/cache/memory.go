package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// expiryLen — длина префикса значения с моментом истечения (unix nano).
const expiryLen = 8

// memoryStore — кэш внутри процесса на bigcache.
//
// bigcache знает только общий LifeWindow, поэтому собственный срок записи
// хранится в первых 8 байтах значения и проверяется при чтении.
// TTL больше LifeWindow не принимается: запись исчезла бы раньше срока.
type memoryStore struct {
	cache      *bigcache.BigCache
	lifeWindow time.Duration
	now        func() time.Time
}

// NewMemory создаёт кэш в памяти. lifeWindow — максимальный допустимый TTL.
func NewMemory(ctx context.Context, lifeWindow time.Duration) (Store, error) {
	return newMemory(ctx, lifeWindow, time.Now)
}

func newMemory(ctx context.Context, lifeWindow time.Duration, now func() time.Time) (*memoryStore, error) {
	const op = "cache.memory.NewMemory"

	if lifeWindow <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTTL)
	}

	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false

	c, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &memoryStore{cache: c, lifeWindow: lifeWindow, now: now}, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	const op = "cache.memory.Set"

	if ttl <= 0 || ttl > s.lifeWindow {
		return fmt.Errorf("%s: %w: %s (life window %s)", op, ErrInvalidTTL, ttl, s.lifeWindow)
	}

	buf := make([]byte, expiryLen+len(value))
	binary.BigEndian.PutUint64(buf, uint64(s.now().Add(ttl).UnixNano()))
	copy(buf[expiryLen:], value)

	if err := s.cache.Set(key, buf); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	const op = "cache.memory.Get"

	buf, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	if len(buf) < expiryLen {
		return "", false, nil
	}

	exp := int64(binary.BigEndian.Uint64(buf[:expiryLen]))
	if s.now().UnixNano() >= exp {
		_ = s.cache.Delete(key)
		return "", false, nil
	}

	return string(buf[expiryLen:]), true, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	const op = "cache.memory.Delete"

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) Close() error { return s.cache.Close() }
