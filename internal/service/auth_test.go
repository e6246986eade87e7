package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/warranty-api/internal/cache"
	"github.com/pribylovaa/warranty-api/internal/config"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/storage"
	"github.com/pribylovaa/warranty-api/mocks"
)

var errBoom = errors.New("boom")

func newMockService(t *testing.T) (*Service, *mocks.MockUserStorage, *mocks.MockStore, *testClock) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStorage(ctrl)
	sessions := mocks.NewMockStore(ctrl)

	clk := &testClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	tokens, err := newTokenCodec("unit-secret", "HS256", 0, clk.Now)
	require.NoError(t, err)

	return &Service{
		users:      users,
		sessions:   sessions,
		hasher:     NewBcryptHasher(bcrypt.MinCost),
		tokens:     tokens,
		sessionTTL: time.Hour,
	}, users, sessions, clk
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := NewBcryptHasher(bcrypt.MinCost).Hash(plain)
	require.NoError(t, err)
	return h
}

// memUsers — потокобезопасное in-memory хранилище пользователей для сквозных сценариев.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]*models.User{}} }

func (m *memUsers) SaveUser(_ context.Context, u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[u.Username]; ok {
		return 0, storage.ErrUsernameExists
	}
	for _, x := range m.byName {
		if x.Email == u.Email {
			return 0, storage.ErrEmailExists
		}
	}

	m.nextID++
	cp := *u
	cp.ID = m.nextID
	m.byName[u.Username] = &cp

	return cp.ID, nil
}

func (m *memUsers) UserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byName[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byName {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memUsers) remove(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byName, username)
}

func newFlowService(t *testing.T) (*Service, *memUsers, cache.Store) {
	t.Helper()

	sessions, err := cache.NewMemory(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	users := newMemUsers()
	tokens, err := NewTokenCodec("flow-secret", "HS256", 0)
	require.NoError(t, err)

	return &Service{
		users:      users,
		sessions:   sessions,
		hasher:     NewBcryptHasher(bcrypt.MinCost),
		tokens:     tokens,
		sessionTTL: time.Hour,
	}, users, sessions
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newMockService(t)
	ctx := context.Background()

	users.EXPECT().UserByUsername(ctx, "alice").Return(nil, storage.ErrNotFound)
	users.EXPECT().UserByEmail(ctx, "alice@example.com").Return(nil, storage.ErrNotFound)
	users.EXPECT().SaveUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) (int64, error) {
		require.Equal(t, "alice", u.Username)
		require.Equal(t, "alice@example.com", u.Email)
		require.NotEqual(t, "p4ssword1", u.PasswordHash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("p4ssword1")))
		return 7, nil
	})

	id, err := svc.Register(ctx, "  alice ", " Alice@Example.com", "p4ssword1")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
}

func TestRegister_UsernameCheckedBeforeEmail(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newMockService(t)
	ctx := context.Background()

	// Email не запрашивается: конфликт username обнаружен раньше.
	users.EXPECT().UserByUsername(ctx, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "p4ssword1")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newMockService(t)
	ctx := context.Background()

	users.EXPECT().UserByUsername(ctx, "bob").Return(nil, storage.ErrNotFound)
	users.EXPECT().UserByEmail(ctx, "alice@example.com").Return(&models.User{ID: 1}, nil)

	_, err := svc.Register(ctx, "bob", "alice@example.com", "p4ssword1")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RaceMappedFromStorage(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		storErr error
		want    error
	}{
		{"username", storage.ErrUsernameExists, ErrUsernameTaken},
		{"email", storage.ErrEmailExists, ErrEmailTaken},
		{"infra", errBoom, errBoom},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, users, _, _ := newMockService(t)
			ctx := context.Background()

			users.EXPECT().UserByUsername(ctx, "alice").Return(nil, storage.ErrNotFound)
			users.EXPECT().UserByEmail(ctx, "alice@example.com").Return(nil, storage.ErrNotFound)
			users.EXPECT().SaveUser(ctx, gomock.Any()).Return(int64(0), tc.storErr)

			_, err := svc.Register(ctx, "alice", "alice@example.com", "p4ssword1")
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegister_LookupFailure(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newMockService(t)
	ctx := context.Background()

	users.EXPECT().UserByUsername(ctx, "alice").Return(nil, errBoom)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "p4ssword1")
	require.ErrorIs(t, err, errBoom)
	require.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, username, email, password, field string
	}{
		{"empty username", "   ", "a@example.com", "pw", "username"},
		{"long username", strings.Repeat("u", maxUsernameLen+1), "a@example.com", "pw", "username"},
		{"bad email", "alice", "not-an-email", "pw", "email"},
		{"email with name", "alice", "Alice <a@example.com>", "pw", "email"},
		{"empty password", "alice", "a@example.com", "", "password"},
		{"long password", "alice", "a@example.com", strings.Repeat("p", maxPasswordBytes+1), "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Хранилище не вызывается: ни одного EXPECT.
			svc, _, _, _ := newMockService(t)

			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password)
			require.ErrorIs(t, err, ErrInvalidArgument)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestLogin_OK_StoresSession(t *testing.T) {
	t.Parallel()

	svc, users, sessions, clk := newMockService(t)
	ctx := context.Background()

	users.EXPECT().UserByUsername(ctx, "alice").
		Return(&models.User{ID: 1, Username: "alice", PasswordHash: mustHash(t, "p4ssword1")}, nil)

	var storedKey string
	sessions.EXPECT().Set(ctx, gomock.Any(), "alice", time.Hour).
		DoAndReturn(func(_ context.Context, key, _ string, _ time.Duration) error {
			storedKey = key
			return nil
		})

	tok, err := svc.Login(ctx, "alice", "p4ssword1")
	require.NoError(t, err)
	require.Equal(t, models.SessionKey(tok.Token), storedKey)
	require.Equal(t, clk.Now().Add(time.Hour), tok.ExpiresAt)

	claims, err := svc.Tokens().Verify(tok.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
}

func TestLogin_Failures_NoSession(t *testing.T) {
	t.Parallel()

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		svc, users, _, _ := newMockService(t)
		users.EXPECT().UserByUsername(gomock.Any(), "alice").
			Return(&models.User{ID: 1, Username: "alice", PasswordHash: mustHash(t, "p4ssword1")}, nil)

		_, err := svc.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		svc, users, _, _ := newMockService(t)
		users.EXPECT().UserByUsername(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

		_, err := svc.Login(context.Background(), "ghost", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		svc, _, _, _ := newMockService(t)

		_, err := svc.Login(context.Background(), "", "pw")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(context.Background(), "alice", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("broken digest", func(t *testing.T) {
		t.Parallel()

		svc, users, _, _ := newMockService(t)
		users.EXPECT().UserByUsername(gomock.Any(), "alice").
			Return(&models.User{ID: 1, Username: "alice", PasswordHash: "garbage"}, nil)

		_, err := svc.Login(context.Background(), "alice", "p4ssword1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		svc, users, _, _ := newMockService(t)
		users.EXPECT().UserByUsername(gomock.Any(), "alice").Return(nil, errBoom)

		_, err := svc.Login(context.Background(), "alice", "p4ssword1")
		require.ErrorIs(t, err, errBoom)
		require.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin_SessionStoreFailure_NoToken(t *testing.T) {
	t.Parallel()

	svc, users, sessions, _ := newMockService(t)
	ctx := context.Background()

	users.EXPECT().UserByUsername(ctx, "alice").
		Return(&models.User{ID: 1, Username: "alice", PasswordHash: mustHash(t, "p4ssword1")}, nil)
	sessions.EXPECT().Set(ctx, gomock.Any(), "alice", time.Hour).Return(errBoom)

	tok, err := svc.Login(ctx, "alice", "p4ssword1")
	require.ErrorIs(t, err, errBoom)
	require.Empty(t, tok.Token)
}

func TestWhoAmI(t *testing.T) {
	t.Parallel()

	svc, users, _, clk := newMockService(t)
	ctx := context.Background()

	tok, err := svc.tokens.Issue("alice", time.Hour)
	require.NoError(t, err)

	// Кэш не трогается: у MockStore нет ожиданий.
	users.EXPECT().UserByUsername(ctx, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)
	u, err := svc.WhoAmI(ctx, tok.Token)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	users.EXPECT().UserByUsername(ctx, "alice").Return(nil, storage.ErrNotFound)
	_, err = svc.WhoAmI(ctx, tok.Token)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.WhoAmI(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	clk.Advance(time.Hour)
	_, err = svc.WhoAmI(ctx, tok.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	svc, users, sessions, _ := newMockService(t)
	ctx := context.Background()

	tok, err := svc.tokens.Issue("alice", time.Hour)
	require.NoError(t, err)
	key := models.SessionKey(tok.Token)

	users.EXPECT().UserByUsername(ctx, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil).Times(2)
	sessions.EXPECT().Delete(ctx, key).Return(nil).Times(2)

	require.NoError(t, svc.Logout(ctx, tok.Token))
	require.NoError(t, svc.Logout(ctx, tok.Token))

	// Невалидный токен: кэш не трогается.
	require.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrInvalidToken)

	users.EXPECT().UserByUsername(ctx, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)
	sessions.EXPECT().Delete(ctx, key).Return(errBoom)
	require.ErrorIs(t, svc.Logout(ctx, tok.Token), errBoom)
}

func TestAuthorize_States(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("active", func(t *testing.T) {
		t.Parallel()

		svc, users, sessions, _ := newMockService(t)
		tok, err := svc.tokens.Issue("alice", time.Hour)
		require.NoError(t, err)

		sessions.EXPECT().Get(ctx, models.SessionKey(tok.Token)).Return("alice", true, nil)
		users.EXPECT().UserByUsername(ctx, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

		u, state, err := svc.Authorize(ctx, tok.Token)
		require.NoError(t, err)
		require.Equal(t, models.SessionActive, state)
		require.Equal(t, "alice", u.Username)
	})

	t.Run("session missing", func(t *testing.T) {
		t.Parallel()

		svc, _, sessions, _ := newMockService(t)
		tok, err := svc.tokens.Issue("alice", time.Hour)
		require.NoError(t, err)

		sessions.EXPECT().Get(ctx, models.SessionKey(tok.Token)).Return("", false, nil)

		_, state, err := svc.Authorize(ctx, tok.Token)
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.Equal(t, models.SessionMissing, state)
	})

	t.Run("signature invalid", func(t *testing.T) {
		t.Parallel()

		svc, _, sessions, _ := newMockService(t)

		sessions.EXPECT().Get(ctx, models.SessionKey("forged")).Return("alice", true, nil)

		_, state, err := svc.Authorize(ctx, "forged")
		require.ErrorIs(t, err, ErrNotAuthenticated)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Equal(t, models.SessionSignatureInvalid, state)
	})

	t.Run("expired token with live session", func(t *testing.T) {
		t.Parallel()

		svc, _, sessions, clk := newMockService(t)
		tok, err := svc.tokens.Issue("alice", time.Minute)
		require.NoError(t, err)
		clk.Advance(time.Minute)

		sessions.EXPECT().Get(ctx, models.SessionKey(tok.Token)).Return("alice", true, nil)

		_, state, err := svc.Authorize(ctx, tok.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)
		require.ErrorIs(t, err, ErrTokenExpired)
		require.Equal(t, models.SessionSignatureInvalid, state)
	})

	t.Run("user missing", func(t *testing.T) {
		t.Parallel()

		svc, users, sessions, _ := newMockService(t)
		tok, err := svc.tokens.Issue("alice", time.Hour)
		require.NoError(t, err)

		sessions.EXPECT().Get(ctx, models.SessionKey(tok.Token)).Return("alice", true, nil)
		users.EXPECT().UserByUsername(ctx, "alice").Return(nil, storage.ErrNotFound)

		_, state, err := svc.Authorize(ctx, tok.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)
		require.ErrorIs(t, err, ErrUserNotFound)
		require.Equal(t, models.SessionUserMissing, state)
	})

	t.Run("cache failure", func(t *testing.T) {
		t.Parallel()

		svc, _, sessions, _ := newMockService(t)

		sessions.EXPECT().Get(ctx, gomock.Any()).Return("", false, errBoom)

		_, state, err := svc.Authorize(ctx, "any")
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, models.SessionUnknown, state)
	})

	t.Run("user lookup failure", func(t *testing.T) {
		t.Parallel()

		svc, users, sessions, _ := newMockService(t)
		tok, err := svc.tokens.Issue("alice", time.Hour)
		require.NoError(t, err)

		sessions.EXPECT().Get(ctx, gomock.Any()).Return("alice", true, nil)
		users.EXPECT().UserByUsername(ctx, "alice").Return(nil, errBoom)

		_, state, err := svc.Authorize(ctx, tok.Token)
		require.ErrorIs(t, err, errBoom)
		require.NotErrorIs(t, err, ErrNotAuthenticated)
		require.Equal(t, models.SessionUnknown, state)
	})
}

func TestFlow_RegisterLoginAuthorizeLogout(t *testing.T) {
	t.Parallel()

	svc, users, sessions := newFlowService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "alice@example.com", "p4ssword1")
	require.NoError(t, err)
	require.Positive(t, id)

	_, err = svc.Register(ctx, "alice", "other@example.com", "p4ssword1")
	require.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Register(ctx, "bob", "ALICE@example.com", "p4ssword1")
	require.ErrorIs(t, err, ErrEmailTaken)

	tok, err := svc.Login(ctx, "alice", "p4ssword1")
	require.NoError(t, err)

	subject, ok, err := sessions.Get(ctx, models.SessionKey(tok.Token))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", subject)

	u, state, err := svc.Authorize(ctx, tok.Token)
	require.NoError(t, err)
	require.Equal(t, models.SessionActive, state)
	require.Equal(t, id, u.ID)

	// Две сессии одного пользователя независимы.
	tok2, err := svc.Login(ctx, "alice", "p4ssword1")
	require.NoError(t, err)
	require.NotEqual(t, tok.Token, tok2.Token)

	require.NoError(t, svc.Logout(ctx, tok.Token))
	require.NoError(t, svc.Logout(ctx, tok.Token))

	_, state, err = svc.Authorize(ctx, tok.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, models.SessionMissing, state)

	// WhoAmI не смотрит в кэш.
	me, err := svc.WhoAmI(ctx, tok.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", me.Username)

	_, state, err = svc.Authorize(ctx, tok2.Token)
	require.NoError(t, err)
	require.Equal(t, models.SessionActive, state)

	users.remove("alice")
	_, state, err = svc.Authorize(ctx, tok2.Token)
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Equal(t, models.SessionUserMissing, state)
}

func TestNew(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStorage(ctrl)
	sessions := mocks.NewMockStore(ctrl)

	_, err := New(users, sessions, configFor("", "HS256", time.Hour))
	require.Error(t, err)

	_, err = New(users, sessions, configFor("s", "RS256", time.Hour))
	require.Error(t, err)

	_, err = New(users, sessions, configFor("s", "HS256", 0))
	require.Error(t, err)

	svc, err := New(users, sessions, configFor("s", "HS256", time.Hour))
	require.NoError(t, err)
	require.Equal(t, time.Hour, svc.sessionTTL)
	require.NotNil(t, svc.Tokens())
}

func configFor(secret, alg string, sessionTTL time.Duration) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:      secret,
		Algorithm:      alg,
		AccessTokenTTL: time.Hour,
		SessionTTL:     sessionTTL,
		BcryptCost:     bcrypt.MinCost,
	}
}
