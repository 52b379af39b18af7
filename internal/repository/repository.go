// Пакет repository — backend'ы хранилища постов.
// Основной — DynamoDB (aws-sdk-go-v2), альтернативный — PostgreSQL (pgx),
// memory — для локальной разработки и тестов.
// Репозитории работают только с закодированными ключами (postkey.Key)
// и сырыми метками; нормализация выполняется фасадом в service.
package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — запись с таким ключом уже существует.
	ErrConflict = errors.New("запись уже существует")
	// ErrInvalidCursor — курсор продолжения не удалось декодировать.
	ErrInvalidCursor = errors.New("некорректный курсор продолжения")
)

// Page — одна страница результатов scan/query.
// Next — курсор следующей страницы, пустая строка — страниц больше нет.
type Page struct {
	Items []*model.PostRecord
	Next  string
}

// PostRepository — доступ к записям постов.
type PostRepository interface {
	// Create записывает новую запись. Существующий ключ — ErrConflict.
	Create(ctx context.Context, rec *model.PostRecord) error
	// Put записывает запись безусловно (импорт seed-данных).
	Put(ctx context.Context, rec *model.PostRecord) error
	// Get возвращает запись по ключу или ErrNotFound.
	Get(ctx context.Context, key postkey.Key) (*model.PostRecord, error)
	// QueryPage возвращает страницу записей одного владельца.
	QueryPage(ctx context.Context, ownerKey, cursor string) (*Page, error)
	// ScanPage возвращает страницу записей всей таблицы.
	ScanPage(ctx context.Context, cursor string) (*Page, error)
	// UpdateEnrichment устанавливает image и labels только у существующей записи.
	// Отсутствующая запись — ErrNotFound, новая запись не создаётся.
	UpdateEnrichment(ctx context.Context, key postkey.Key, image string, labels []string) (*model.PostRecord, error)
	// Delete удаляет запись и возвращает её содержимое до удаления или ErrNotFound.
	Delete(ctx context.Context, key postkey.Key) (*model.PostRecord, error)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// cursorPayload — содержимое курсора: последний ключ предыдущей страницы.
type cursorPayload struct {
	Owner string `json:"o"`
	Post  string `json:"p"`
}

// encodeCursor упаковывает последний ключ страницы в непрозрачную строку.
func encodeCursor(key postkey.Key) string {
	data, _ := json.Marshal(cursorPayload{Owner: key.Owner, Post: key.Post})
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeCursor распаковывает курсор. Пустой курсор — начало таблицы (нулевой ключ).
func decodeCursor(cursor string) (postkey.Key, error) {
	if cursor == "" {
		return postkey.Key{}, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return postkey.Key{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var p cursorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return postkey.Key{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if p.Owner == "" || p.Post == "" {
		return postkey.Key{}, fmt.Errorf("%w: пустой ключ", ErrInvalidCursor)
	}
	return postkey.Key{Owner: p.Owner, Post: p.Post}, nil
}

// copyRecord возвращает независимую копию записи.
func copyRecord(rec *model.PostRecord) *model.PostRecord {
	c := *rec
	if rec.Image != nil {
		img := *rec.Image
		c.Image = &img
	}
	return &c
}
