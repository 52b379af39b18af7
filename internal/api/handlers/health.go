// health.go — обработчики health endpoints API постов.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (хранилище постов + bucket доступны,
// при запущенном topologymetrics — и его сводка по зависимостям)
// /metrics — Prometheus метрики
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/postgram/internal/config"
)

// serviceName — имя сервиса в ответах health endpoints.
const serviceName = "posts-api"

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	storeChecker  ReadinessChecker
	bucketChecker ReadinessChecker
	promHandler   http.Handler

	// depsChecker — состояние зависимостей из topologymetrics, может отсутствовать
	depsChecker ReadinessChecker
}

// NewHealthHandler создаёт обработчик health endpoints.
// storeChecker — проверка хранилища постов, bucketChecker — проверка bucket.
// Оба могут быть nil (readiness вернёт "fail" для nil зависимостей).
func NewHealthHandler(storeChecker, bucketChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		storeChecker:  storeChecker,
		bucketChecker: bucketChecker,
		promHandler:   promhttp.Handler(),
	}
}

// WithDependencies добавляет в readiness состояние зависимостей из topologymetrics.
// Вызывается до запуска HTTP-сервера.
func (h *HealthHandler) WithDependencies(c ReadinessChecker) *HealthHandler {
	h.depsChecker = c
	return h
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		Store        healthCheckResult  `json:"store"`
		Bucket       healthCheckResult  `json:"bucket"`
		Dependencies *healthCheckResult `json:"dependencies,omitempty"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет хранилище постов и bucket.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	resp.Checks.Store = check(h.storeChecker)
	resp.Checks.Bucket = check(h.bucketChecker)
	statuses := []string{resp.Checks.Store.Status, resp.Checks.Bucket.Status}
	if h.depsChecker != nil {
		deps := check(h.depsChecker)
		resp.Checks.Dependencies = &deps
		statuses = append(statuses, deps.Status)
	}
	resp.Status = overallStatus(statuses...)

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func check(c ReadinessChecker) healthCheckResult {
	if c == nil {
		return healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}
	status, msg := c.CheckReady()
	return healthCheckResult{Status: status, Message: msg}
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
