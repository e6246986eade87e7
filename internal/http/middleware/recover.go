package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
	"github.com/pribylovaa/warranty-api/internal/pkg/log"
)

var errPanic = errors.New("handler panicked")

// Recover превращает panic обработчика в 500 {"detail":"Internal server error"}.
// Если ответ уже начат, тело не дописывается: остаётся только запись в логе.
// http.ErrAbortHandler пробрасывается дальше, net/http обрывает им соединение.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if !sw.written() {
					apierrors.WriteError(sw, r, errPanic)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
