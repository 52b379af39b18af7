// Пакет bootstrap — сборка хранилища постов по PM_STORE_BACKEND.
// Общая часть запуска API, worker'а обогащения и seed-инструмента.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/postgram/internal/config"
	"github.com/bigkaa/postgram/internal/database"
	"github.com/bigkaa/postgram/internal/repository"
)

// ReadinessChecker — проверка готовности backend'а хранилища.
type ReadinessChecker interface {
	CheckReady() (status string, message string)
}

// PostStore — выбранный backend хранилища постов.
type PostStore struct {
	Repo    repository.PostRepository
	Checker ReadinessChecker
	// DB — *sql.DB поверх pgxpool для topologymetrics; nil для других backend'ов
	DB *sql.DB

	closers []func()
}

// Close освобождает соединения backend'а.
func (s *PostStore) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenPostStore создаёт хранилище постов выбранного backend'а.
// Для postgres применяет миграции и открывает pgxpool.
func OpenPostStore(ctx context.Context, cfg *config.Config, dynamo repository.DynamoAPI, logger *slog.Logger) (*PostStore, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		logger.Info("Хранилище постов: DynamoDB", slog.String("table", cfg.Table))
		return &PostStore{
			Repo:    repository.NewDynamoPostRepository(dynamo, cfg.Table, cfg.ScanPageSize),
			Checker: repository.NewDynamoReadinessChecker(dynamo, cfg.Table),
		}, nil

	case config.BackendPostgres:
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			return nil, fmt.Errorf("миграции БД: %w", err)
		}
		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		// Проверка здоровья topologymetrics идёт через тот же пул соединений
		db := stdlib.OpenDBFromPool(pool)
		return &PostStore{
			Repo:    repository.NewPostgresPostRepository(pool, cfg.Table, cfg.ScanPageSize),
			Checker: database.NewReadinessChecker(pool),
			DB:      db,
			closers: []func(){pool.Close, func() { _ = db.Close() }},
		}, nil

	case config.BackendMemory:
		logger.Warn("Хранилище постов в памяти: данные не переживут перезапуск")
		mem := repository.NewMemoryPostRepository(cfg.ScanPageSize)
		return &PostStore{Repo: mem, Checker: mem}, nil

	default:
		return nil, fmt.Errorf("неизвестный backend хранилища: %q", cfg.StoreBackend)
	}
}
