// enrichment.go — обработка уведомлений о загруженных объектах:
// распознавание меток изображения и условное обновление поста.
//
// Записи одного вызова независимы: ошибка одной записи логируется и не
// прерывает обработку остальных. Вызов целиком никогда не завершается ошибкой.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
)

// Prometheus-метрики обогащения.
var (
	enrichmentRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pm_enrichment_records_total",
		Help: "Количество обработанных записей событий по результату (enriched, skipped, failed).",
	}, []string{"result"})
	enrichmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pm_enrichment_duration_seconds",
		Help:    "Длительность обработки одной записи события.",
		Buckets: prometheus.DefBuckets,
	})
)

// Результаты обработки записи.
const (
	resultEnriched = "enriched"
	resultSkipped  = "skipped"
	resultFailed   = "failed"
)

// ObjectCreatedEvent — уведомление о загруженном объекте.
// Key — в том виде, как пришёл от хранилища (percent-encoding).
type ObjectCreatedEvent struct {
	Bucket string
	Key    string
}

// EnrichmentSummary — итог обработки одного вызова.
type EnrichmentSummary struct {
	Total    int `json:"total"`
	Enriched int `json:"enriched"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// LabelDetector — распознавание меток изображения в bucket.
type LabelDetector interface {
	DetectLabels(ctx context.Context, bucket, key string) ([]string, error)
}

// EnrichmentUpdater — условное обновление поста результатом обогащения.
type EnrichmentUpdater interface {
	UpdateEnrichment(ctx context.Context, ownerID, postID, imagePath string, labels []string) (*model.Post, error)
}

// EnrichmentWorker — обработчик пакетов уведомлений о загрузке.
type EnrichmentWorker struct {
	posts       EnrichmentUpdater
	detector    LabelDetector
	concurrency int
	logger      *slog.Logger
}

// NewEnrichmentWorker создаёт worker. concurrency — максимум записей,
// обрабатываемых параллельно.
func NewEnrichmentWorker(posts EnrichmentUpdater, detector LabelDetector, concurrency int, logger *slog.Logger) *EnrichmentWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &EnrichmentWorker{
		posts:       posts,
		detector:    detector,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "enrichment_worker")),
	}
}

// Process обрабатывает все записи вызова и возвращает сводку.
func (w *EnrichmentWorker) Process(ctx context.Context, events []ObjectCreatedEvent) EnrichmentSummary {
	results := make([]string, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, ev := range events {
		g.Go(func() error {
			results[i] = w.processRecord(gctx, i, ev)
			return nil
		})
	}
	_ = g.Wait()

	summary := EnrichmentSummary{Total: len(events)}
	for _, r := range results {
		switch r {
		case resultEnriched:
			summary.Enriched++
		case resultSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	w.logger.Info("Пакет событий обработан",
		slog.Int("total", summary.Total),
		slog.Int("enriched", summary.Enriched),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary
}

// processRecord обрабатывает одну запись и возвращает её результат.
func (w *EnrichmentWorker) processRecord(ctx context.Context, idx int, ev ObjectCreatedEvent) (result string) {
	start := time.Now()
	logger := w.logger.With(slog.Int("record", idx), slog.String("bucket", ev.Bucket))
	defer func() {
		enrichmentRecordsTotal.WithLabelValues(result).Inc()
		enrichmentDuration.Observe(time.Since(start).Seconds())
	}()

	if ev.Bucket == "" || ev.Key == "" {
		logger.Warn("Запись события без bucket или ключа объекта, пропуск")
		return resultSkipped
	}

	objectPath, err := postkey.DecodeObjectKey(ev.Key)
	if err != nil {
		logger.Error("Ключ объекта не декодируется, пропуск",
			slog.String("key", ev.Key),
			slog.String("error", err.Error()),
		)
		return resultSkipped
	}
	logger = logger.With(slog.String("object_path", objectPath))

	ref, err := postkey.ParseObjectPath(objectPath)
	if err != nil {
		logger.Error("Путь объекта не соответствует owner/post/filename, пропуск",
			slog.String("error", err.Error()),
		)
		return resultSkipped
	}

	if err := errors.Join(postkey.ValidateID(ref.OwnerID), postkey.ValidateID(ref.PostID)); err != nil {
		logger.Error("Путь объекта не адресует пост, пропуск",
			slog.String("error", err.Error()),
		)
		return resultSkipped
	}

	labels, err := w.detector.DetectLabels(ctx, ev.Bucket, objectPath)
	if err != nil {
		logger.Error("Ошибка распознавания меток",
			slog.String("post_id", ref.PostID),
			slog.String("error", errors.Join(ErrRecognition, err).Error()),
		)
		return resultFailed
	}

	if _, err := w.posts.UpdateEnrichment(ctx, ref.OwnerID, ref.PostID, objectPath, labels); err != nil {
		if errors.Is(err, ErrValidation) {
			logger.Warn("Путь объекта не адресует пост, пропуск",
				slog.String("error", err.Error()),
			)
			return resultSkipped
		}
		if errors.Is(err, ErrPostNotFound) {
			logger.Warn("Пост для обогащения не найден, пропуск",
				slog.String("owner_id", ref.OwnerID),
				slog.String("post_id", ref.PostID),
			)
			return resultSkipped
		}
		logger.Error("Ошибка обновления поста",
			slog.String("post_id", ref.PostID),
			slog.String("error", err.Error()),
		)
		return resultFailed
	}

	logger.Info("Пост обогащён",
		slog.String("owner_id", ref.OwnerID),
		slog.String("post_id", ref.PostID),
		slog.Any("labels", labels),
	)
	return resultEnriched
}
