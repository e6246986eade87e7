package middleware

import (
	"net/http"
	"strings"
)

// AuthBearer извлекает токен из "Authorization: Bearer <token>" и кладёт
// его в контекст. Схема сравнивается без учёта регистра. Отсутствие или
// кривой заголовок не прерывают запрос: решение принимает RequireSession
// или сам хендлер.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
				r = r.WithContext(WithToken(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(rest)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}

	return token, true
}
