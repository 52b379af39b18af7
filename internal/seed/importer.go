// importer.go — загрузка seed-данных с ограничением скорости и параллелизма.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bigkaa/postgram/internal/domain/model"
)

// PostImporter — безусловная запись поста (service.PostService).
type PostImporter interface {
	Import(ctx context.Context, post *model.Post) error
}

// ObjectPutter — загрузка объекта в bucket (objectstore.Store).
type ObjectPutter interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Options — параметры импорта.
type Options struct {
	// ImagesDir — каталог с изображениями, разложенными как <user>/<id>/<file>
	ImagesDir string
	// Rate — записей в секунду (<= 0 — без ограничения)
	Rate float64
	// Concurrency — параллельно обрабатываемых записей
	Concurrency int
}

// Report — итог импорта.
type Report struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Images   int `json:"images"`
	Failed   int `json:"failed"`
}

// Importer — импорт seed-записей.
type Importer struct {
	posts   PostImporter
	objects ObjectPutter
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewImporter создаёт импортёр.
func NewImporter(posts PostImporter, objects ObjectPutter, opts Options, logger *slog.Logger) *Importer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	return &Importer{
		posts:   posts,
		objects: objects,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(slog.String("component", "seed_importer")),
	}
}

// Run импортирует записи. Ошибка отдельной записи учитывается в Report.Failed
// и не прерывает импорт; ошибка возвращается только при отмене контекста.
func (im *Importer) Run(ctx context.Context, items []Item) (Report, error) {
	var (
		mu     sync.Mutex
		report = Report{Total: len(items)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.opts.Concurrency)
	for _, item := range items {
		g.Go(func() error {
			if err := im.limiter.Wait(gctx); err != nil {
				return err
			}

			uploaded, err := im.importItem(gctx, item)

			mu.Lock()
			defer mu.Unlock()
			if uploaded {
				report.Images++
			}
			if err != nil {
				report.Failed++
				im.logger.Error("Ошибка импорта поста",
					slog.String("user", item.User),
					slog.String("id", item.ID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			report.Imported++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("импорт прерван: %w", err)
	}

	im.logger.Info("Импорт завершён",
		slog.Int("total", report.Total),
		slog.Int("imported", report.Imported),
		slog.Int("images", report.Images),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// importItem загружает изображение (если есть) и записывает пост.
// Пост без загруженного изображения не записывается.
func (im *Importer) importItem(ctx context.Context, item Item) (uploaded bool, err error) {
	if item.Image != "" && im.opts.ImagesDir != "" {
		if err := im.uploadImage(ctx, item.Image); err != nil {
			return false, err
		}
		uploaded = true
	}

	if err := im.posts.Import(ctx, item.Post()); err != nil {
		return uploaded, err
	}
	return uploaded, nil
}

func (im *Importer) uploadImage(ctx context.Context, key string) error {
	path := filepath.Join(im.opts.ImagesDir, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ошибка открытия изображения: %w", err)
	}
	defer f.Close()

	return im.objects.Put(ctx, key, f, mime.TypeByExtension(filepath.Ext(key)))
}
