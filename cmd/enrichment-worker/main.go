// Точка входа worker'а обогащения.
// Вызывается средой AWS Lambda на уведомления S3 ObjectCreated:
// распознаёт метки загруженного изображения и записывает image и labels в пост.
// Отсутствие обязательной конфигурации — ошибка запуска (cold start).
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/bigkaa/postgram/internal/awsclient"
	"github.com/bigkaa/postgram/internal/bootstrap"
	"github.com/bigkaa/postgram/internal/config"
	"github.com/bigkaa/postgram/internal/event"
	"github.com/bigkaa/postgram/internal/objectstore"
	"github.com/bigkaa/postgram/internal/recognition"
	"github.com/bigkaa/postgram/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := config.SetupLogger(cfg)
	logger.Info("Worker обогащения запускается",
		slog.String("version", config.Version),
		slog.String("store_backend", cfg.StoreBackend),
		slog.Int("concurrency", cfg.WorkerConcurrency),
	)

	ctx := context.Background()

	awsCfg, err := awsclient.LoadConfig(ctx, cfg)
	if err != nil {
		logger.Error("Ошибка конфигурации AWS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clients := awsclient.New(awsCfg, cfg)

	store, err := bootstrap.OpenPostStore(ctx, cfg, clients.DynamoDB, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища постов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	postsSvc := service.NewPostService(store.Repo, objectstore.New(clients.S3, cfg.Bucket), logger)
	detector := recognition.New(clients.Rekognition, cfg.LabelsMax, cfg.LabelsMinConfidence)
	worker := service.NewEnrichmentWorker(postsSvc, detector, cfg.WorkerConcurrency, logger)

	lambda.Start(event.NewS3Handler(worker))
}
