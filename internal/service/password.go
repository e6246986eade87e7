package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes — предел bcrypt: байты сверх него не участвуют в хэше.
const maxPasswordBytes = 72

// PasswordHasher — односторонний солёный хэш пароля.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify никогда не паникует: битый хэш означает false.
	Verify(plain, digest string) bool
}

// BcryptHasher — PasswordHasher на bcrypt с настраиваемой стоимостью.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher ограничивает cost допустимым диапазоном bcrypt;
// 0 означает bcrypt.DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	return BcryptHasher{cost: cost}
}

// Hash хэширует пароль; пароль длиннее 72 байт отклоняется.
func (h BcryptHasher) Hash(plain string) (string, error) {
	const op = "service.password.Hash"

	if len(plain) > maxPasswordBytes {
		return "", fmt.Errorf("%s: %w: password must be at most %d bytes", op, ErrInvalidArgument, maxPasswordBytes)
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(b), nil
}

// Verify сравнивает пароль с хэшем.
func (h BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
