package database

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/postgram/internal/config"
)

// TestTableFS проверяет подстановку имени таблицы в embedded миграции.
func TestTableFS(t *testing.T) {
	fsys := tableFS{base: migrationsFS, table: "photo_posts"}

	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		t.Fatalf("ReadDir() ошибка: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("ожидались файлы миграций")
	}

	for _, e := range entries {
		f, err := fsys.Open("migrations/" + e.Name())
		if err != nil {
			t.Fatalf("Open(%s) ошибка: %v", e.Name(), err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s) ошибка: %v", e.Name(), err)
		}
		sql := string(data)
		if strings.Contains(sql, tablePlaceholder) {
			t.Errorf("%s: плейсхолдер не подставлен", e.Name())
		}
		if !strings.Contains(sql, "photo_posts") {
			t.Errorf("%s: имя таблицы не найдено", e.Name())
		}
	}
}

// setupTestDB запускает PostgreSQL в Docker-контейнере через testcontainers.
func setupTestDB(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("postgram_test"),
		postgres.WithUsername("postgram"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("PM_ENV_FILE", "/nonexistent/.env")
	t.Setenv("PM_STORE_BACKEND", "postgres")
	t.Setenv("PM_TABLE", "posts")
	t.Setenv("PM_BUCKET", "test-bucket")
	t.Setenv("PM_REGION", "us-east-1")
	t.Setenv("PM_DB_HOST", host)
	t.Setenv("PM_DB_PORT", port.Port())
	t.Setenv("PM_DB_NAME", "postgram_test")
	t.Setenv("PM_DB_USER", "postgram")
	t.Setenv("PM_DB_PASSWORD", "test-password")
	t.Setenv("PM_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	return cfg
}

// TestConnectAndMigrate проверяет подключение, миграции и readiness.
func TestConnectAndMigrate(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() ошибка: %v", err)
	}
	// Повторное применение — ErrNoChange, не ошибка
	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("повторный Migrate() ошибка: %v", err)
	}

	pool, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	defer pool.Close()

	var exists bool
	err = pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", cfg.Table,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("ошибка проверки таблицы: %v", err)
	}
	if !exists {
		t.Errorf("таблица %s не создана", cfg.Table)
	}

	checker := NewReadinessChecker(pool)
	if status, msg := checker.CheckReady(); status != "ok" {
		t.Errorf("CheckReady() = %s (%s), ожидается ok", status, msg)
	}
}
