// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - HTTP-статус;
//   - тело {"detail": "..."} без утечки внутренних деталей.
//
// Источник истинности по смыслу ошибок: sentinel-ошибки пакетов
// service, catalog и storage. Инфраструктурные сбои (всё, что не
// распознано) отдаются как 500 и пишутся в лог запроса.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/warranty-api/internal/catalog"
	"github.com/pribylovaa/warranty-api/internal/models"
	"github.com/pribylovaa/warranty-api/internal/pkg/log"
	"github.com/pribylovaa/warranty-api/internal/service"
	"github.com/pribylovaa/warranty-api/internal/storage"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Тексты ответов, на которые опираются клиенты.
const (
	DetailInternal           = "Internal server error"
	DetailNotAuthenticated   = "Not authenticated"
	DetailSessionNotFound    = "Session not found or expired"
	DetailInvalidToken       = "Invalid token"
	DetailUserNotFound       = "User not found"
	DetailInvalidCredentials = "Invalid username or password"
	DetailUsernameTaken      = "Username already taken"
	DetailEmailTaken         = "Email already taken"
	DetailInvalidReference   = "invalid reference"
	DetailInUse              = "Record is referenced by other records"
)

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
//
// Порядок проверок важен: Authorize оборачивает ErrNotAuthenticated вместе
// с причиной (ErrInvalidToken, ErrUserNotFound), и такой ответ должен быть
// "Not authenticated", а не текстом причины.
//
// err == nil — программная ошибка вызова: отдаём 500, чтобы не маскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Detail: DetailInternal}
	}

	var (
		ve *models.ValidationError
		nf *catalog.NotFoundError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrorResponse{Detail: "Request canceled"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Detail: "Request timed out"}

	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, ErrorResponse{Detail: ve.Error()}
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, catalog.ErrInvalidArgument):
		return http.StatusUnprocessableEntity, ErrorResponse{Detail: "Invalid argument"}

	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusBadRequest, ErrorResponse{Detail: DetailUsernameTaken}
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, ErrorResponse{Detail: DetailEmailTaken}

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Detail: DetailInvalidCredentials}
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusUnauthorized, ErrorResponse{Detail: DetailSessionNotFound}
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, ErrorResponse{Detail: DetailNotAuthenticated}
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, ErrorResponse{Detail: DetailUserNotFound}
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Detail: DetailInvalidToken}

	case errors.As(err, &nf):
		return http.StatusNotFound, ErrorResponse{Detail: nf.Error()}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Detail: "Not found"}
	case errors.Is(err, storage.ErrInvalidReference):
		return http.StatusBadRequest, ErrorResponse{Detail: DetailInvalidReference}
	case errors.Is(err, storage.ErrInUse):
		return http.StatusConflict, ErrorResponse{Detail: DetailInUse}
	}

	return http.StatusInternalServerError, ErrorResponse{Detail: DetailInternal}
}

// WriteError — хелпер для HTTP-хендлеров и мидлваров.
// На 401 добавляет WWW-Authenticate: Bearer; 5xx пишет в лог запроса с исходной ошибкой.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if status >= http.StatusInternalServerError {
		log.From(r.Context()).Error("request_failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			log.Err(err),
		)
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
