package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/pkg/log"
	"github.com/pribylovaa/warranty-api/internal/pkg/redact"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

const maxUsernameLen = 255

// Register создаёт пользователя. Занятость username проверяется раньше email;
// гонку двух одновременных регистраций разрешает уникальный индекс хранилища.
func (s *Service) Register(ctx context.Context, username, email, password string) (int64, error) {
	const op = "service.auth.Register"

	lg := log.From(ctx)

	username, email, err := validateRegistration(username, email, password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.users.UserByUsername(ctx, username); err == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.SaveUser(ctx, &models.User{Username: username, Email: email, PasswordHash: hash})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameExists):
			return 0, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		case errors.Is(err, storage.ErrEmailExists):
			return 0, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		lg.Error("save_user_failed", slog.String("op", op), log.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_registered",
		slog.Int64("user_id", id),
		slog.String("email", redact.Email(email)),
	)

	return id, nil
}

// Login проверяет пароль, выпускает токен и регистрирует сессию.
// Токен возвращается только если запись сессии сохранена.
func (s *Service) Login(ctx context.Context, username, password string) (models.AccessToken, error) {
	const op = "service.auth.Login"

	lg := log.From(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.AccessToken{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("login_failed", slog.String("username", redact.Username(username)))
			return models.AccessToken{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return models.AccessToken{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		lg.Warn("login_failed", slog.String("username", redact.Username(username)))
		return models.AccessToken{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username, s.sessionTTL)
	if err != nil {
		lg.Error("token_issue_failed", slog.String("op", op), log.Err(err))
		return models.AccessToken{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Set(ctx, models.SessionKey(token.Token), user.Username, s.sessionTTL); err != nil {
		lg.Error("session_store_failed", slog.String("op", op), log.Err(err))
		return models.AccessToken{}, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_logged_in", slog.Int64("user_id", user.ID))

	return token, nil
}

// WhoAmI возвращает владельца токена. Кэш сессий не проверяется:
// достаточно валидной подписи и существующего пользователя.
func (s *Service) WhoAmI(ctx context.Context, token string) (*models.User, error) {
	const op = "service.auth.WhoAmI"

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// Logout удаляет сессию токена. Повторный вызов с тем же токеном не ошибка.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "service.auth.Logout"

	user, err := s.WhoAmI(ctx, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Delete(ctx, models.SessionKey(token)); err != nil {
		log.From(ctx).Error("session_delete_failed", slog.String("op", op), log.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_out", slog.Int64("user_id", user.ID))

	return nil
}

// Authorize — проверка на входе в защищённый маршрут в два этапа:
//  1. запись сессии есть в кэше (иначе SessionMissing);
//  2. токен валиден (иначе SignatureInvalid) и его субъект существует (иначе UserMissing).
//
// Состояние SessionUnknown сопровождается инфраструктурной ошибкой.
func (s *Service) Authorize(ctx context.Context, token string) (*models.User, models.SessionState, error) {
	const op = "service.auth.Authorize"

	_, ok, err := s.sessions.Get(ctx, models.SessionKey(token))
	if err != nil {
		log.From(ctx).Error("session_lookup_failed", slog.String("op", op), log.Err(err))
		return nil, models.SessionUnknown, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, models.SessionMissing, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, models.SessionSignatureInvalid, fmt.Errorf("%s: %w: %w", op, ErrNotAuthenticated, err)
	}

	user, err := s.users.UserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.SessionUserMissing, fmt.Errorf("%s: %w: %w", op, ErrNotAuthenticated, ErrUserNotFound)
		}

		return nil, models.SessionUnknown, fmt.Errorf("%s: %w", op, err)
	}

	return user, models.SessionActive, nil
}

// validateRegistration нормализует username (обрезка пробелов) и email
// (обрезка, нижний регистр) и проверяет пароль.
func validateRegistration(username, email, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "", invalidArgument("username", "must not be empty")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "", "", invalidArgument("username", fmt.Sprintf("must be at most %d characters", maxUsernameLen))
	}

	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", invalidArgument("email", "value is not a valid email address")
	}

	if password == "" {
		return "", "", invalidArgument("password", "must not be empty")
	}
	if len(password) > maxPasswordBytes {
		return "", "", invalidArgument("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	return username, strings.ToLower(email), nil
}

func invalidArgument(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, &models.ValidationError{Field: field, Reason: reason})
}
