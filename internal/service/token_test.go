package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T) (*TokenCodec, *testClock) {
	t.Helper()

	clk := &testClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	c, err := newTokenCodec("unit-secret", "HS256", 0, clk.Now)
	require.NoError(t, err)

	return c, clk
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)

	tok, err := c.Issue("alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.Equal(t, clk.Now().Add(time.Hour), tok.ExpiresAt)

	clk.Advance(59 * time.Minute)
	claims, err := c.Verify(tok.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, tok.ExpiresAt, claims.ExpiresAt)
	require.NotEmpty(t, claims.ID)
}

func TestTokenCodec_ExpiryIsStrict(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)

	tok, err := c.Issue("alice", time.Minute)
	require.NoError(t, err)

	clk.Advance(time.Minute - time.Second)
	_, err = c.Verify(tok.Token)
	require.NoError(t, err)

	// Ровно в момент exp токен уже недействителен.
	clk.Advance(time.Second)
	_, err = c.Verify(tok.Token)
	require.ErrorIs(t, err, ErrTokenExpired)

	clk.Advance(time.Hour)
	_, err = c.Verify(tok.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)

	tok, err := c.Issue("alice", 0)
	require.NoError(t, err)
	require.Equal(t, clk.Now().Add(DefaultTokenTTL), tok.ExpiresAt)

	c2, err := newTokenCodec("s", "HS256", 15*time.Minute, clk.Now)
	require.NoError(t, err)
	tok, err = c2.Issue("alice", -time.Second)
	require.NoError(t, err)
	require.Equal(t, clk.Now().Add(15*time.Minute), tok.ExpiresAt)
}

func TestTokenCodec_UniquePerIssue(t *testing.T) {
	t.Parallel()

	c, _ := newTestCodec(t)

	a, err := c.Issue("alice", time.Hour)
	require.NoError(t, err)
	b, err := c.Issue("alice", time.Hour)
	require.NoError(t, err)

	require.NotEqual(t, a.Token, b.Token)
}

func TestTokenCodec_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)

	other, err := newTokenCodec("another-secret", "HS256", 0, clk.Now)
	require.NoError(t, err)
	foreign, err := other.Issue("alice", time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(foreign.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Тот же секрет, но другой алгоритм.
	hs512, err := newTokenCodec("unit-secret", "HS512", 0, clk.Now)
	require.NoError(t, err)
	tok512, err := hs512.Issue("alice", time.Hour)
	require.NoError(t, err)
	_, err = c.Verify(tok512.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// alg=none.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_RejectsMalformed(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)

	for _, raw := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 512)} {
		_, err := c.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken, raw)
	}

	tok, err := c.Issue("alice", time.Hour)
	require.NoError(t, err)
	_, err = c.Verify(tok.Token[:len(tok.Token)-2])
	require.ErrorIs(t, err, ErrInvalidToken)

	// Без sub и без exp.
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString([]byte("unit-secret"))
	require.NoError(t, err)
	_, err = c.Verify(noSub)
	require.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("unit-secret"))
	require.NoError(t, err)
	_, err = c.Verify(noExp)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenCodec_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec("", "HS256", 0)
	require.Error(t, err)

	_, err = NewTokenCodec("s", "RS256", 0)
	require.Error(t, err)

	_, err = NewTokenCodec("s", "nope", 0)
	require.Error(t, err)

	c, err := NewTokenCodec("s", "HS384", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTokenTTL, c.defaultTTL)
}
