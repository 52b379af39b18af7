// readurl.go — временные URL чтения изображений постов.
package service

import (
	"context"
	"log/slog"
	"time"
)

// ReadPresigner — подпись GET-запроса к объекту.
type ReadPresigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ReadURLService — генератор presigned URL чтения.
type ReadURLService struct {
	presigner ReadPresigner
	ttl       time.Duration
	logger    *slog.Logger
}

// NewReadURLService создаёт генератор URL чтения с окном действия ttl.
func NewReadURLService(presigner ReadPresigner, ttl time.Duration, logger *slog.Logger) *ReadURLService {
	return &ReadURLService{
		presigner: presigner,
		ttl:       ttl,
		logger:    logger.With(slog.String("component", "read_url_service")),
	}
}

// ReadURL возвращает URL чтения объекта или nil.
// nil — для пустого пути и при ошибке подписи (ошибка логируется).
func (s *ReadURLService) ReadURL(ctx context.Context, objectPath string) *string {
	if objectPath == "" {
		return nil
	}
	url, err := s.presigner.PresignGet(ctx, objectPath, s.ttl)
	if err != nil {
		s.logger.Error("Ошибка подписи URL чтения",
			slog.String("object_path", objectPath),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &url
}
