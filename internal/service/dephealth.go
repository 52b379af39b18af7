// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Мониторятся только зависимости, до которых есть собственный endpoint:
//   - PostgreSQL — SQL checker через существующий pgxpool (при PM_STORE_BACKEND=postgres, critical)
//   - S3-совместимое хранилище — HTTP checker к health endpoint (при заданном PM_S3_ENDPOINT)
//
// Управляемые сервисы AWS (DynamoDB, S3, Rekognition) без переопределённых
// endpoint'ов не мониторятся: их доступность проверяет /health/ready.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoDependencies — нет зависимостей для мониторинга.
var ErrNoDependencies = errors.New("нет зависимостей для мониторинга")

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// DephealthTargets — мониторируемые зависимости. Пустые поля пропускаются.
type DephealthTargets struct {
	// DB — *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool()
	DB *sql.DB
	// PGConnURL — URL подключения к PostgreSQL (для лейблов, не для подключения)
	PGConnURL string
	// ObjectStoreURL — endpoint S3-совместимого хранилища (PM_S3_ENDPOINT)
	ObjectStoreURL string
	// ObjectStoreHealthPath — health path хранилища (PM_S3_HEALTH_PATH)
	ObjectStoreHealthPath string
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
// Без единой зависимости возвращает ErrNoDependencies.
func NewDephealthService(
	serviceID string,
	group string,
	targets DephealthTargets,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, targets, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	targets DephealthTargets,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, targets, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	targets DephealthTargets,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{dephealth.WithLogger(logger)}
	deps := 0

	if targets.DB != nil {
		// Connection pool mode: проверка через адаптер pgxpool
		opts = append(opts, dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(targets.DB)),
			dephealth.FromURL(targets.PGConnURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		))
		deps++
	}

	if targets.ObjectStoreURL != "" {
		opts = append(opts, dephealth.HTTP("object-storage",
			dephealth.FromURL(targets.ObjectStoreURL),
			dephealth.WithHTTPHealthPath(targets.ObjectStoreHealthPath),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(false),
		))
		deps++
	}

	if deps == 0 {
		return nil, ErrNoDependencies
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady сводит последние результаты проверок topologymetrics в статус readiness.
// Реализует интерфейс handlers.ReadinessChecker.
func (ds *DephealthService) CheckReady() (status string, message string) {
	return readinessFromHealth(ds.Health())
}

// readinessFromHealth: хотя бы одна недоступная зависимость — degraded.
// fail не возвращается: доступность хранилища и bucket проверяется отдельно.
func readinessFromHealth(health map[string]bool) (string, string) {
	if len(health) == 0 {
		return "ok", "проверки ещё не выполнялись"
	}
	failed := make([]string, 0)
	for name, ok := range health {
		if !ok {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return "degraded", "недоступны: " + strings.Join(failed, ", ")
	}
	return "ok", fmt.Sprintf("зависимостей: %d", len(health))
}
