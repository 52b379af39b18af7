// handler.go — основной обработчик API, реализующий contract.ServerInterface.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/bigkaa/postgram/internal/api/errors"
	"github.com/bigkaa/postgram/internal/service"
)

// APIHandler — основной обработчик HTTP API постов.
type APIHandler struct {
	health   *HealthHandler
	posts    *service.PostService
	uploads  *service.UploadService
	readURLs *service.ReadURLService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	posts *service.PostService,
	uploads *service.UploadService,
	readURLs *service.ReadURLService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:   health,
		posts:    posts,
		uploads:  uploads,
		readURLs: readURLs,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// ParamErrorHandler — ответ на ошибку привязки параметров запроса.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	apierrors.ValidationError(w, err.Error())
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ownerFrom возвращает идентификатор владельца из заголовка authorization.
func ownerFrom(auth *string) (string, bool) {
	if auth == nil || *auth == "" {
		return "", false
	}
	return *auth, true
}

// writeServiceError отображает ошибку сервисного слоя в HTTP-ответ.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error, message string, attrs ...any) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Пост не найден")
	case errors.Is(err, service.ErrCredentialIssuance):
		h.logger.Error(message, append(attrs, slog.String("error", err.Error()))...)
		apierrors.StorageUnavailable(w, message)
	default:
		h.logger.Error(message, append(attrs, slog.String("error", err.Error()))...)
		apierrors.InternalError(w, message)
	}
}
