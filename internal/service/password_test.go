package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("p4ssword1")
	require.NoError(t, err)
	require.NotEqual(t, "p4ssword1", digest)

	require.True(t, h.Verify("p4ssword1", digest))
	require.False(t, h.Verify("p4ssword2", digest))

	// Соль: одинаковые пароли дают разные хэши.
	again, err := h.Hash("p4ssword1")
	require.NoError(t, err)
	require.NotEqual(t, digest, again)
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	require.NotPanics(t, func() {
		require.False(t, h.Verify("p4ssword1", ""))
		require.False(t, h.Verify("p4ssword1", "not-a-bcrypt-hash"))
		require.False(t, h.Verify("p4ssword1", "$2a$04$short"))
	})
}

func TestBcryptHasher_TooLong(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", maxPasswordBytes+1))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = h.Hash(strings.Repeat("a", maxPasswordBytes))
	require.NoError(t, err)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	t.Parallel()

	require.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	require.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).cost)
	require.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
	require.Equal(t, 12, NewBcryptHasher(12).cost)
}
