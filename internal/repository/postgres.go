package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
)

// PostgresPostRepository — реализация PostRepository на PostgreSQL.
// Метки хранятся в колонке labels типа JSONB как есть (в том числе
// тегированные значения из импортированных данных).
type PostgresPostRepository struct {
	db       DBTX
	table    string
	pageSize int
}

// NewPostgresPostRepository создаёт репозиторий постов PostgreSQL.
// table должен быть проверенным SQL-идентификатором (см. config).
func NewPostgresPostRepository(db DBTX, table string, pageSize int) *PostgresPostRepository {
	return &PostgresPostRepository{db: db, table: table, pageSize: pageSize}
}

const postColumns = "owner_key, post_key, title, body, image, labels"

// Create вставляет новую запись. Существующий ключ — ErrConflict.
func (r *PostgresPostRepository) Create(ctx context.Context, rec *model.PostRecord) error {
	labels, err := marshalLabels(rec.RawLabels)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		ON CONFLICT (owner_key, post_key) DO NOTHING`, r.table, postColumns)

	tag, err := r.db.Exec(ctx, query,
		rec.OwnerKey, rec.PostKey, rec.Title, rec.Body, rec.Image, labels,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания поста: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// Put вставляет или перезаписывает запись (upsert).
func (r *PostgresPostRepository) Put(ctx context.Context, rec *model.PostRecord) error {
	labels, err := marshalLabels(rec.RawLabels)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		ON CONFLICT (owner_key, post_key) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			image = EXCLUDED.image,
			labels = EXCLUDED.labels,
			updated_at = NOW()`, r.table, postColumns)

	if _, err := r.db.Exec(ctx, query,
		rec.OwnerKey, rec.PostKey, rec.Title, rec.Body, rec.Image, labels,
	); err != nil {
		return fmt.Errorf("ошибка записи поста: %w", err)
	}
	return nil
}

// Get возвращает запись по ключу.
func (r *PostgresPostRepository) Get(ctx context.Context, key postkey.Key) (*model.PostRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE owner_key = $1 AND post_key = $2`, postColumns, r.table)

	rec, err := scanPost(r.db.QueryRow(ctx, query, key.Owner, key.Post))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения поста: %w", err)
	}
	return rec, nil
}

// QueryPage возвращает страницу постов владельца (keyset-пагинация по post_key).
func (r *PostgresPostRepository) QueryPage(ctx context.Context, ownerKey, cursor string) (*Page, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_key = $1 AND post_key > $2 AND starts_with(post_key, '%s')
		ORDER BY post_key
		LIMIT $3`, postColumns, r.table, postkey.PostPrefix)

	rows, err := r.db.Query(ctx, query, ownerKey, after.Post, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса постов владельца: %w", err)
	}
	return r.collectPage(rows)
}

// ScanPage возвращает страницу всех постов (keyset-пагинация по (owner_key, post_key)).
func (r *PostgresPostRepository) ScanPage(ctx context.Context, cursor string) (*Page, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE (owner_key, post_key) > ($1, $2)
			AND starts_with(owner_key, '%s') AND starts_with(post_key, '%s')
		ORDER BY owner_key, post_key
		LIMIT $3`, postColumns, r.table, postkey.OwnerPrefix, postkey.PostPrefix)

	rows, err := r.db.Query(ctx, query, after.Owner, after.Post, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("ошибка scan постов: %w", err)
	}
	return r.collectPage(rows)
}

// UpdateEnrichment обновляет image и labels существующей записи.
// UPDATE не создаёт строк, отсутствие записи определяется по RETURNING.
func (r *PostgresPostRepository) UpdateEnrichment(ctx context.Context, key postkey.Key, image string, labels []string) (*model.PostRecord, error) {
	if labels == nil {
		labels = []string{}
	}
	raw, err := marshalLabels(labels)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET image = $3, labels = $4::jsonb, updated_at = NOW()
		WHERE owner_key = $1 AND post_key = $2
		RETURNING %s`, r.table, postColumns)

	rec, err := scanPost(r.db.QueryRow(ctx, query, key.Owner, key.Post, image, raw))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления поста: %w", err)
	}
	return rec, nil
}

// Delete удаляет запись и возвращает её содержимое до удаления.
func (r *PostgresPostRepository) Delete(ctx context.Context, key postkey.Key) (*model.PostRecord, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE owner_key = $1 AND post_key = $2
		RETURNING %s`, r.table, postColumns)

	rec, err := scanPost(r.db.QueryRow(ctx, query, key.Owner, key.Post))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка удаления поста: %w", err)
	}
	return rec, nil
}

// collectPage читает строки и формирует курсор по последней записи полной страницы.
func (r *PostgresPostRepository) collectPage(rows pgx.Rows) (*Page, error) {
	defer rows.Close()

	page := &Page{Items: make([]*model.PostRecord, 0, r.pageSize)}
	for rows.Next() {
		rec, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		page.Items = append(page.Items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации строк: %w", err)
	}

	if len(page.Items) == r.pageSize {
		last := page.Items[len(page.Items)-1]
		page.Next = encodeCursor(postkey.Key{Owner: last.OwnerKey, Post: last.PostKey})
	}
	return page, nil
}

// scanPost сканирует строку в PostRecord.
// Используется как для pgx.Row, так и для pgx.Rows.
func scanPost(row pgx.Row) (*model.PostRecord, error) {
	var (
		rec    model.PostRecord
		labels []byte
	)
	if err := row.Scan(&rec.OwnerKey, &rec.PostKey, &rec.Title, &rec.Body, &rec.Image, &labels); err != nil {
		return nil, err
	}

	if len(labels) > 0 {
		var raw any
		if err := json.Unmarshal(labels, &raw); err != nil {
			return nil, fmt.Errorf("ошибка разбора labels: %w", err)
		}
		rec.RawLabels = raw
	}
	return &rec, nil
}

// marshalLabels сериализует метки в JSON для колонки JSONB.
func marshalLabels(raw any) (string, error) {
	if raw == nil {
		return "[]", nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации labels: %w", err)
	}
	return string(data), nil
}
