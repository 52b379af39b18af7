// upload.go — выпуск временных URL для прямой загрузки изображения в bucket.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/postgram/internal/domain/postkey"
	"github.com/bigkaa/postgram/internal/objectstore"
)

// uploadCredentialsTotal — выпущенные URL загрузки по статусу (ok, invalid, error).
var uploadCredentialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pm_upload_credentials_total",
	Help: "Количество запросов URL загрузки по статусу.",
}, []string{"status"})

// UploadPresigner — подпись PUT-запроса к объекту.
type UploadPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*objectstore.PresignedRequest, error)
}

// UploadCredential — URL загрузки и путь объекта, к которому он привязан.
type UploadCredential struct {
	UploadURL  string
	ObjectPath string
}

// UploadService — выпуск URL загрузки изображений постов.
// Не обращается к хранилищу постов.
type UploadService struct {
	presigner UploadPresigner
	ttl       time.Duration
	logger    *slog.Logger
}

// NewUploadService создаёт сервис загрузки с окном действия URL ttl.
func NewUploadService(presigner UploadPresigner, ttl time.Duration, logger *slog.Logger) *UploadService {
	return &UploadService{
		presigner: presigner,
		ttl:       ttl,
		logger:    logger.With(slog.String("component", "upload_service")),
	}
}

// IssueUploadCredential возвращает presigned PUT для пути
// "<owner>/<post>/<uuid><ext>", привязанный к contentType.
// Ошибка backend'а — ErrCredentialIssuance, повторов нет.
func (s *UploadService) IssueUploadCredential(ctx context.Context, filename, contentType, postID, ownerID string) (*UploadCredential, error) {
	if err := validateUploadRequest(filename, contentType, postID, ownerID); err != nil {
		uploadCredentialsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	objectPath := postkey.NewObjectPath(ownerID, postID, filename)

	req, err := s.presigner.PresignPut(ctx, objectPath, contentType, s.ttl)
	if err != nil {
		uploadCredentialsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Ошибка выпуска URL загрузки",
			slog.String("object_path", objectPath),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrCredentialIssuance, err)
	}
	uploadCredentialsTotal.WithLabelValues("ok").Inc()

	s.logger.Info("URL загрузки выпущен",
		slog.String("owner_id", ownerID),
		slog.String("post_id", postID),
		slog.String("object_path", objectPath),
		slog.Duration("ttl", s.ttl),
	)

	return &UploadCredential{UploadURL: req.URL, ObjectPath: objectPath}, nil
}

// validateUploadRequest проверяет параметры до обращения к хранилищу:
// owner и post становятся сегментами пути и не могут содержать '/'.
func validateUploadRequest(filename, contentType, postID, ownerID string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: filename обязателен", ErrValidation)
	}
	if strings.TrimSpace(contentType) == "" {
		return fmt.Errorf("%w: filetype обязателен", ErrValidation)
	}
	if err := postkey.ValidateID(postID); err != nil {
		return fmt.Errorf("%w: postId: %v", ErrValidation, err)
	}
	if err := postkey.ValidateID(ownerID); err != nil {
		return fmt.Errorf("%w: владелец: %v", ErrValidation, err)
	}
	return nil
}
