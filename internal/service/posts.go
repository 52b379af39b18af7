// posts.go — фасад хранилища постов.
// Единственная точка, через которую HTTP-слой, worker обогащения и seed-инструмент
// работают с записями: применяет кодирование ключей, нормализует метки,
// удаляет объект изображения при удалении поста.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
	"github.com/bigkaa/postgram/internal/repository"
)

// Prometheus-метрики постов.
var (
	postsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pm_posts_created_total",
		Help: "Количество созданных постов.",
	})
	postsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pm_posts_deleted_total",
		Help: "Количество удалённых постов.",
	})
	postsListDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pm_posts_list_duration_seconds",
		Help:    "Длительность получения списка постов (mode: owner, scan).",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	blobDeleteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pm_blob_delete_failures_total",
		Help: "Количество неудачных удалений объектов изображений.",
	})
)

// BlobDeleter — удаление объекта изображения из bucket.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// PostService — фасад хранилища постов.
type PostService struct {
	repo   repository.PostRepository
	blobs  BlobDeleter
	logger *slog.Logger
}

// NewPostService создаёт фасад хранилища постов.
func NewPostService(repo repository.PostRepository, blobs BlobDeleter, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		blobs:  blobs,
		logger: logger.With(slog.String("component", "post_service")),
	}
}

// Create создаёт пост со случайным UUID, без изображения и с пустыми метками.
func (s *PostService) Create(ctx context.Context, ownerID, title, body string) (*model.Post, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: title и body обязательны", ErrValidation)
	}

	postID := uuid.NewString()
	key := postkey.Encode(ownerID, postID)
	rec := &model.PostRecord{
		OwnerKey:  key.Owner,
		PostKey:   key.Post,
		Title:     title,
		Body:      body,
		RawLabels: []string{},
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: создание поста %s: %w", ErrStoreWrite, postID, err)
	}
	postsCreatedTotal.Inc()

	s.logger.Info("Пост создан",
		slog.String("owner_id", ownerID),
		slog.String("post_id", postID),
	)
	return toPost(rec), nil
}

// Get возвращает пост по сырым идентификаторам.
func (s *PostService) Get(ctx context.Context, ownerID, postID string) (*model.Post, error) {
	if err := validateKey(ownerID, postID); err != nil {
		return nil, err
	}
	rec, err := s.repo.Get(ctx, postkey.Encode(ownerID, postID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: получение поста %s: %w", ErrStoreRead, postID, err)
	}
	return toPost(rec), nil
}

// List возвращает посты владельца (ownerID задан) или всей таблицы (ownerID пуст).
// Проходит все страницы результата до исчерпания курсора.
func (s *PostService) List(ctx context.Context, ownerID string) ([]*model.Post, error) {
	if ownerID != "" {
		if err := validateOwner(ownerID); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	mode := "owner"
	fetch := func(cursor string) (*repository.Page, error) {
		return s.repo.QueryPage(ctx, postkey.EncodeOwner(ownerID), cursor)
	}
	if ownerID == "" {
		mode = "scan"
		fetch = func(cursor string) (*repository.Page, error) {
			return s.repo.ScanPage(ctx, cursor)
		}
		s.logger.Warn("Список постов без владельца: полный scan таблицы")
	}

	posts := make([]*model.Post, 0)
	pages := 0
	cursor := ""
	for {
		page, err := fetch(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: список постов (%s): %w", ErrStoreRead, mode, err)
		}
		pages++
		for _, rec := range page.Items {
			posts = append(posts, toPost(rec))
		}
		if page.Next == "" {
			break
		}
		cursor = page.Next
	}

	duration := time.Since(start)
	postsListDuration.WithLabelValues(mode).Observe(duration.Seconds())

	s.logger.Debug("Список постов получен",
		slog.String("mode", mode),
		slog.Int("pages", pages),
		slog.Int("count", len(posts)),
		slog.Duration("duration", duration),
	)
	return posts, nil
}

// UpdateEnrichment устанавливает image и labels существующего поста.
// Отсутствующий пост — ErrPostNotFound, новая запись не создаётся.
func (s *PostService) UpdateEnrichment(ctx context.Context, ownerID, postID, imagePath string, labels []string) (*model.Post, error) {
	if err := validateKey(ownerID, postID); err != nil {
		return nil, err
	}
	rec, err := s.repo.UpdateEnrichment(ctx, postkey.Encode(ownerID, postID), imagePath, labels)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("%w: обогащение поста %s: %w", ErrStoreWrite, postID, err)
	}
	return toPost(rec), nil
}

// Delete удаляет пост и возвращает его состояние до удаления.
// Объект изображения удаляется до записи; ошибка удаления объекта
// только логируется и не блокирует удаление записи.
func (s *PostService) Delete(ctx context.Context, ownerID, postID string) (*model.Post, error) {
	post, err := s.Get(ctx, ownerID, postID)
	if err != nil {
		return nil, err
	}

	if post.HasImage() {
		if err := s.blobs.Delete(ctx, *post.Image); err != nil {
			blobDeleteFailuresTotal.Inc()
			s.logger.Error("Ошибка удаления изображения поста",
				slog.String("post_id", postID),
				slog.String("image", *post.Image),
				slog.String("error", fmt.Errorf("%w: %w", ErrBlobDelete, err).Error()),
			)
		}
	}

	if _, err := s.repo.Delete(ctx, postkey.Encode(ownerID, postID)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: удаление поста %s: %w", ErrStoreWrite, postID, err)
	}
	postsDeletedTotal.Inc()

	s.logger.Info("Пост удалён",
		slog.String("owner_id", ownerID),
		slog.String("post_id", postID),
		slog.Bool("had_image", post.HasImage()),
	)
	return post, nil
}

// Import записывает пост с заданными идентификаторами безусловно (seed-данные).
func (s *PostService) Import(ctx context.Context, post *model.Post) error {
	if err := validateKey(post.OwnerID, post.PostID); err != nil {
		return err
	}

	labels := post.Labels
	if labels == nil {
		labels = []string{}
	}
	key := postkey.Encode(post.OwnerID, post.PostID)
	rec := &model.PostRecord{
		OwnerKey:  key.Owner,
		PostKey:   key.Post,
		Title:     post.Title,
		Body:      post.Body,
		Image:     post.Image,
		RawLabels: labels,
	}

	if err := s.repo.Put(ctx, rec); err != nil {
		return fmt.Errorf("%w: импорт поста %s: %w", ErrStoreWrite, post.PostID, err)
	}
	return nil
}

// validateOwner проверяет идентификатор владельца до кодирования ключа.
func validateOwner(ownerID string) error {
	if err := postkey.ValidateID(ownerID); err != nil {
		return fmt.Errorf("%w: владелец: %v", ErrValidation, err)
	}
	return nil
}

// validateKey проверяет обе части составного ключа поста.
func validateKey(ownerID, postID string) error {
	if err := validateOwner(ownerID); err != nil {
		return err
	}
	if err := postkey.ValidateID(postID); err != nil {
		return fmt.Errorf("%w: пост: %v", ErrValidation, err)
	}
	return nil
}

// toPost конвертирует запись хранилища во внешнее представление:
// снимает префиксы ключей и нормализует метки.
func toPost(rec *model.PostRecord) *model.Post {
	var image *string
	if rec.Image != nil && *rec.Image != "" {
		img := *rec.Image
		image = &img
	}
	return &model.Post{
		OwnerID: postkey.DecodeOwner(rec.OwnerKey),
		PostID:  postkey.DecodePost(rec.PostKey),
		Title:   rec.Title,
		Body:    rec.Body,
		Image:   image,
		Labels:  model.NormalizeLabels(rec.RawLabels),
	}
}
