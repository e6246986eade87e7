// service содержит логику аутентификации: регистрацию, вход, выпуск и
// проверку токенов и жизненный цикл сессии в кэше.
//
// Основные аспекты:
//   - Service не хранит состояние запроса и безопасен для конкурентного
//     использования при потокобезопасных storage.UserStorage и cache.Store.
//   - Все ошибки нижних слоёв приводятся к одному из трёх видов: конфликт,
//     отказ в аутентификации или инфраструктурный сбой (любая ошибка,
//     не совпадающая с переменными ниже). Маппинг на HTTP указан у каждой.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/config"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

var (
	// ErrInvalidArgument — входные данные не прошли валидацию. HTTP 422.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUsernameTaken — username уже занят. HTTP 400.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken — e-mail уже занят. HTTP 400.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
	// Оба случая неразличимы для клиента. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken — токен повреждён, подпись не сходится или алгоритм чужой. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrUserNotFound — субъект валидного токена отсутствует в хранилище. HTTP 401.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound — записи сессии нет в кэше (logout или истёк TTL). HTTP 401.
	ErrSessionNotFound = errors.New("session not found or expired")

	// ErrNotAuthenticated — сессия есть, но токен или пользователь не прошли проверку. HTTP 401.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Service описывает бизнес-логику аутентификации.
type Service struct {
	users      storage.UserStorage
	sessions   cache.Store
	hasher     PasswordHasher
	tokens     *TokenCodec
	sessionTTL time.Duration
}

// New собирает Service из зависимостей и конфигурации auth.
// Один и тот же SessionTTL задаёт срок и токена при входе, и записи сессии.
func New(users storage.UserStorage, sessions cache.Store, cfg config.AuthConfig) (*Service, error) {
	const op = "service.New"

	tokens, err := NewTokenCodec(cfg.JWTSecret, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("%s: session ttl must be positive", op)
	}

	return &Service{
		users:      users,
		sessions:   sessions,
		hasher:     NewBcryptHasher(cfg.BcryptCost),
		tokens:     tokens,
		sessionTTL: cfg.SessionTTL,
	}, nil
}

// Tokens отдаёт кодек токенов (используется сидером и тестами).
func (s *Service) Tokens() *TokenCodec { return s.tokens }
