// Пакет event — преобразование уведомлений S3 в записи для worker'а обогащения.
package event

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bigkaa/postgram/internal/service"
)

// FromS3Event возвращает по одной записи на каждое уведомление.
// Записи с пустыми bucket/key сохраняются: их пропуск и учёт в сводке
// выполняет worker.
func FromS3Event(ev events.S3Event) []service.ObjectCreatedEvent {
	out := make([]service.ObjectCreatedEvent, 0, len(ev.Records))
	for _, r := range ev.Records {
		out = append(out, service.ObjectCreatedEvent{
			Bucket: r.S3.Bucket.Name,
			Key:    r.S3.Object.Key,
		})
	}
	return out
}

// Processor — обработка пакета записей (service.EnrichmentWorker).
type Processor interface {
	Process(ctx context.Context, records []service.ObjectCreatedEvent) service.EnrichmentSummary
}

// Response — результат вызова worker'а, возвращаемый среде исполнения.
type Response struct {
	StatusCode int                       `json:"statusCode"`
	Summary    service.EnrichmentSummary `json:"summary"`
}

// NewS3Handler возвращает обработчик уведомлений S3 для lambda.Start.
// Ошибки отдельных записей не прерывают вызов, поэтому ошибка всегда nil.
func NewS3Handler(p Processor) func(ctx context.Context, ev events.S3Event) (Response, error) {
	return func(ctx context.Context, ev events.S3Event) (Response, error) {
		summary := p.Process(ctx, FromS3Event(ev))
		return Response{StatusCode: http.StatusOK, Summary: summary}, nil
	}
}
