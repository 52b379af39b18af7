// Пакет config — загрузка и валидация конфигурации Posts Module
// из переменных окружения. Один Config создаётся при старте процесса
// (API, worker, seed) и передаётся в конструкторы клиентов и сервисов.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// ErrConfigurationMissing — обязательная переменная окружения не задана.
var ErrConfigurationMissing = errors.New("обязательная переменная окружения не задана")

// Допустимые backend'ы хранилища постов.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config содержит все параметры конфигурации Posts Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- Хранилище постов ---

	// StoreBackend — dynamodb, postgres или memory
	StoreBackend string
	// Table — имя таблицы постов (DynamoDB table или таблица PostgreSQL)
	Table string
	// ScanPageSize — размер страницы при scan/query
	ScanPageSize int

	// --- AWS ---

	// Bucket — bucket для изображений постов
	Bucket string
	// Region — регион сервисов
	Region string
	// Переопределения endpoint'ов (LocalStack, MinIO). Пусто — стандартные AWS endpoints.
	DynamoDBEndpoint    string
	S3Endpoint          string
	RekognitionEndpoint string
	// S3ForcePathStyle — path-style адресация (нужна для MinIO)
	S3ForcePathStyle bool
	// S3HealthPath — health endpoint S3-совместимого хранилища
	// (мониторинг через topologymetrics при заданном S3Endpoint)
	S3HealthPath string

	// --- Presigned URLs ---

	UploadURLTTL time.Duration
	ReadURLTTL   time.Duration

	// --- Обогащение ---

	// LabelsMax — максимум меток от сервиса распознавания
	LabelsMax int
	// LabelsMinConfidence — минимальная уверенность (проценты)
	LabelsMinConfidence float64
	// WorkerConcurrency — число записей события, обрабатываемых параллельно
	WorkerConcurrency int

	// --- PostgreSQL (только StoreBackend=postgres) ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// --- CORS ---

	CORSAllowedOrigins []string

	// --- topologymetrics ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Перед чтением подгружает .env (PM_ENV_FILE), реальное окружение имеет приоритет.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnvDefault("PM_ENV_FILE", ".env")); err != nil {
		return nil, fmt.Errorf("PM_ENV_FILE: %w", err)
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// PM_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("PM_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("PM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// PM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("PM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("PM_LOG_LEVEL: %w", err)
	}

	// PM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("PM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("PM_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	cfg.HTTPReadTimeout, err = getEnvDuration("PM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PM_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("PM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PM_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("PM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PM_HTTP_IDLE_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = getEnvDuration("PM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PM_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Хранилище постов ---

	// PM_STORE_BACKEND — backend хранилища (по умолчанию dynamodb)
	cfg.StoreBackend = strings.ToLower(getEnvDefault("PM_STORE_BACKEND", BackendDynamoDB))
	switch cfg.StoreBackend {
	case BackendDynamoDB, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("PM_STORE_BACKEND: недопустимое значение %q, допустимые: dynamodb, postgres, memory", cfg.StoreBackend)
	}

	// PM_TABLE — обязательный
	cfg.Table, err = getEnvRequired("PM_TABLE")
	if err != nil {
		return nil, err
	}

	// PM_SCAN_PAGE_SIZE — размер страницы scan/query (по умолчанию 100)
	cfg.ScanPageSize, err = getEnvInt("PM_SCAN_PAGE_SIZE", 100)
	if err != nil {
		return nil, fmt.Errorf("PM_SCAN_PAGE_SIZE: %w", err)
	}
	if cfg.ScanPageSize < 1 || cfg.ScanPageSize > 1000 {
		return nil, fmt.Errorf("PM_SCAN_PAGE_SIZE: значение %d вне допустимого диапазона 1-1000", cfg.ScanPageSize)
	}

	// --- AWS ---

	// PM_BUCKET — обязательный
	cfg.Bucket, err = getEnvRequired("PM_BUCKET")
	if err != nil {
		return nil, err
	}

	// PM_REGION — обязательный
	cfg.Region, err = getEnvRequired("PM_REGION")
	if err != nil {
		return nil, err
	}

	cfg.DynamoDBEndpoint = strings.TrimRight(getEnvDefault("PM_DYNAMODB_ENDPOINT", ""), "/")
	cfg.S3Endpoint = strings.TrimRight(getEnvDefault("PM_S3_ENDPOINT", ""), "/")
	cfg.RekognitionEndpoint = strings.TrimRight(getEnvDefault("PM_REKOGNITION_ENDPOINT", ""), "/")

	cfg.S3ForcePathStyle, err = getEnvBool("PM_S3_FORCE_PATH_STYLE", false)
	if err != nil {
		return nil, fmt.Errorf("PM_S3_FORCE_PATH_STYLE: %w", err)
	}
	cfg.S3HealthPath = getEnvDefault("PM_S3_HEALTH_PATH", "/minio/health/live")

	// --- Presigned URLs ---

	// PM_UPLOAD_URL_TTL — срок действия URL загрузки (по умолчанию 1h)
	cfg.UploadURLTTL, err = getEnvPositiveDuration("PM_UPLOAD_URL_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("PM_UPLOAD_URL_TTL: %w", err)
	}

	// PM_READ_URL_TTL — срок действия URL чтения (по умолчанию 1h)
	cfg.ReadURLTTL, err = getEnvPositiveDuration("PM_READ_URL_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("PM_READ_URL_TTL: %w", err)
	}

	// --- Обогащение ---

	cfg.LabelsMax, err = getEnvInt("PM_LABELS_MAX", 5)
	if err != nil {
		return nil, fmt.Errorf("PM_LABELS_MAX: %w", err)
	}
	if cfg.LabelsMax < 1 {
		return nil, fmt.Errorf("PM_LABELS_MAX: значение должно быть > 0")
	}

	cfg.LabelsMinConfidence, err = getEnvFloat("PM_LABELS_MIN_CONFIDENCE", 75)
	if err != nil {
		return nil, fmt.Errorf("PM_LABELS_MIN_CONFIDENCE: %w", err)
	}
	if cfg.LabelsMinConfidence < 0 || cfg.LabelsMinConfidence > 100 {
		return nil, fmt.Errorf("PM_LABELS_MIN_CONFIDENCE: значение %v вне допустимого диапазона 0-100", cfg.LabelsMinConfidence)
	}

	cfg.WorkerConcurrency, err = getEnvInt("PM_WORKER_CONCURRENCY", 4)
	if err != nil {
		return nil, fmt.Errorf("PM_WORKER_CONCURRENCY: %w", err)
	}
	if cfg.WorkerConcurrency < 1 {
		return nil, fmt.Errorf("PM_WORKER_CONCURRENCY: значение должно быть > 0")
	}

	// --- PostgreSQL ---

	if cfg.StoreBackend == BackendPostgres {
		if err := loadPostgres(cfg); err != nil {
			return nil, err
		}
	}

	// --- CORS ---

	cfg.CORSAllowedOrigins = parseCSV(getEnvDefault("PM_CORS_ALLOWED_ORIGINS", "*"))

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("PM_DEPHEALTH_GROUP", "postgram")
	cfg.DephealthCheckInterval, err = getEnvPositiveDuration("PM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// loadPostgres читает параметры подключения к PostgreSQL.
func loadPostgres(cfg *Config) error {
	var err error

	if cfg.DBHost, err = getEnvRequired("PM_DB_HOST"); err != nil {
		return err
	}
	cfg.DBPort, err = getEnvInt("PM_DB_PORT", 5432)
	if err != nil {
		return fmt.Errorf("PM_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("PM_DB_NAME"); err != nil {
		return err
	}
	if cfg.DBUser, err = getEnvRequired("PM_DB_USER"); err != nil {
		return err
	}
	if cfg.DBPassword, err = getEnvRequired("PM_DB_PASSWORD"); err != nil {
		return err
	}

	cfg.DBSSLMode = getEnvDefault("PM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return fmt.Errorf("PM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// Имя таблицы подставляется в SQL, поэтому допускаем только идентификатор
	if !isSQLIdentifier(cfg.Table) {
		return fmt.Errorf("PM_TABLE: %q не является допустимым именем таблицы PostgreSQL", cfg.Table)
	}
	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL (для golang-migrate и лейблов topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// loadDotEnv подгружает переменные из .env файла, если он существует.
// Уже заданные переменные окружения не перезаписываются.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// getEnvRequired возвращает значение переменной окружения или ErrConfigurationMissing.
func getEnvRequired(key string) (string, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return "", fmt.Errorf("%s: %w", key, ErrConfigurationMissing)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvFloat возвращает число с плавающей точкой из переменной окружения.
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное число: %q", val)
	}
	return f, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvPositiveDuration — как getEnvDuration, но значение должно быть > 0.
func getEnvPositiveDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	d, err := getEnvDuration(key, defaultVal)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// isSQLIdentifier проверяет, что s — простой идентификатор [a-zA-Z_][a-zA-Z0-9_]*.
func isSQLIdentifier(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
