package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/warranty-api/internal/models"
)

// DefaultTokenTTL — срок токена, если вызывающий не задал свой.
const DefaultTokenTTL = 60 * time.Minute

// TokenCodec выпускает и проверяет HMAC-подписанные JWT.
// Время берётся в UTC из одного источника и при выпуске, и при проверке.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec проверяет алгоритм: допускаются только HMAC-семейства (HS256/384/512).
func NewTokenCodec(secret, alg string, defaultTTL time.Duration) (*TokenCodec, error) {
	return newTokenCodec(secret, alg, defaultTTL, func() time.Time { return time.Now().UTC() })
}

func newTokenCodec(secret, alg string, defaultTTL time.Duration, now func() time.Time) (*TokenCodec, error) {
	const op = "service.token.NewTokenCodec"

	if secret == "" {
		return nil, fmt.Errorf("%s: empty jwt secret", op)
	}

	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported signing algorithm %q", op, alg)
	}

	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}

	return &TokenCodec{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
		now:        now,
	}, nil
}

// Issue выпускает токен с sub=subject и exp=now+ttl; ttl<=0 заменяется значением по умолчанию.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (models.AccessToken, error) {
	const op = "service.token.Issue"

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.AccessToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

// Verify проверяет подпись, алгоритм и срок. Токен истёк, если now >= exp.
// Любая ошибка сводится к ErrTokenExpired или ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (*models.Claims, error) {
	const op = "service.token.Verify"

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	out := &models.Claims{
		Subject:   claims.Subject,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}

	return out, nil
}
