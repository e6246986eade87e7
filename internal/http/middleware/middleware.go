// middleware — net/http мидлвары HTTP-слоя: request id, логирование,
// восстановление после panic, таймаут, извлечение Bearer-токена,
// проверка сессии и метрики.
package middleware

import (
	"context"
	"net/http"

	"github.com/pribylovaa/warranty-api/internal/models"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxToken
	ctxUser
)

// RequestIDFrom возвращает id запроса, выставленный RequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// TokenFrom возвращает "сырой" Bearer-токен, извлечённый AuthBearer.
func TokenFrom(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(ctxToken).(string)
	return tok, ok && tok != ""
}

// UserFrom возвращает пользователя, прошедшего RequireSession.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxUser).(*models.User)
	return u, ok && u != nil
}

// WithToken кладёт токен в контекст (используется тестами хендлеров).
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxToken, token)
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

// Status — код ответа; 200, если обработчик ничего не записал.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// written — был ли уже отправлен заголовок ответа.
func (w *statusWriter) written() bool { return w.status != 0 }

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w}
}
