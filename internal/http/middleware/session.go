package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/pkg/log"
	"github.com/pribylovaa/warranty-api/internal/service"
)

// Authorizer — проверка сессии по токену (реализует service.Service).
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*models.User, models.SessionState, error)
}

// RequireSession пропускает запрос только с активной сессией.
// Ожидает, что AuthBearer уже положил токен в контекст.
// Пользователь доступен дальше через UserFrom.
func RequireSession(a Authorizer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := TokenFrom(r.Context())
			if !ok {
				apierrors.WriteError(w, r, fmt.Errorf("middleware.RequireSession: %w", service.ErrNotAuthenticated))
				return
			}

			user, state, err := a.Authorize(r.Context(), token)
			if err != nil {
				if state != models.SessionUnknown {
					log.From(r.Context()).Warn("authorize_rejected", slog.String("state", state.String()))
				}
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			ctx = log.With(ctx, slog.Int64("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
