// Точка входа API постов.
// Загружает конфигурацию, создаёт клиенты AWS и хранилище постов выбранного
// backend'а, собирает сервисный слой и API handlers, запускает мониторинг
// зависимостей (topologymetrics) и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/bigkaa/postgram/internal/api/handlers"
	"github.com/bigkaa/postgram/internal/awsclient"
	"github.com/bigkaa/postgram/internal/bootstrap"
	"github.com/bigkaa/postgram/internal/config"
	"github.com/bigkaa/postgram/internal/objectstore"
	"github.com/bigkaa/postgram/internal/server"
	"github.com/bigkaa/postgram/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("API постов запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
	)

	ctx := context.Background()

	// 3. Клиенты AWS (DynamoDB, S3)
	awsCfg, err := awsclient.LoadConfig(ctx, cfg)
	if err != nil {
		logger.Error("Ошибка конфигурации AWS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clients := awsclient.New(awsCfg, cfg)

	// 4. Хранилище постов
	store, err := bootstrap.OpenPostStore(ctx, cfg, clients.DynamoDB, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища постов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// 5. Объектное хранилище
	objects := objectstore.New(clients.S3, cfg.Bucket)

	// 6. Services
	postsSvc := service.NewPostService(store.Repo, objects, logger)
	uploadsSvc := service.NewUploadService(objects, cfg.UploadURLTTL, logger)
	readURLsSvc := service.NewReadURLService(objects, cfg.ReadURLTTL, logger)

	// 7. Readiness checkers (хранилище постов + bucket)
	healthHandler := handlers.NewHealthHandler(store.Checker, objects)

	// 8. API handler (реализует contract.ServerInterface)
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		postsSvc,
		uploadsSvc,
		readURLsSvc,
		logger,
	)

	// 9. topologymetrics — мониторинг зависимостей
	targets := service.DephealthTargets{DB: store.DB}
	if store.DB != nil {
		targets.PGConnURL = cfg.DatabaseURL()
	}
	if cfg.S3Endpoint != "" {
		targets.ObjectStoreURL = cfg.S3Endpoint
		targets.ObjectStoreHealthPath = cfg.S3HealthPath
	}
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"posts-api",
		cfg.DephealthGroup,
		targets,
		cfg.DephealthCheckInterval,
		logger,
	)
	switch {
	case errors.Is(dephealthErr, service.ErrNoDependencies):
		dephealthSvc = nil
		logger.Info("topologymetrics: нет зависимостей с собственным endpoint, мониторинг не запущен")
	case dephealthErr != nil:
		dephealthSvc = nil
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	default:
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			healthHandler.WithDependencies(dephealthSvc)
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("API постов остановлен")
}
