package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
)

// MemoryPostRepository — потокобезопасное хранилище постов в памяти.
// Порядок scan/query — по (owner_key, post_key), как в PostgreSQL backend.
type MemoryPostRepository struct {
	mu       sync.RWMutex
	items    map[postkey.Key]*model.PostRecord
	pageSize int
}

// NewMemoryPostRepository создаёт пустое in-memory хранилище.
func NewMemoryPostRepository(pageSize int) *MemoryPostRepository {
	if pageSize < 1 {
		pageSize = 100
	}
	return &MemoryPostRepository{
		items:    make(map[postkey.Key]*model.PostRecord),
		pageSize: pageSize,
	}
}

// Create добавляет запись, если ключ свободен.
func (r *MemoryPostRepository) Create(_ context.Context, rec *model.PostRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := postkey.Key{Owner: rec.OwnerKey, Post: rec.PostKey}
	if _, ok := r.items[key]; ok {
		return ErrConflict
	}
	r.items[key] = copyRecord(rec)
	return nil
}

// Put записывает запись безусловно.
func (r *MemoryPostRepository) Put(_ context.Context, rec *model.PostRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[postkey.Key{Owner: rec.OwnerKey, Post: rec.PostKey}] = copyRecord(rec)
	return nil
}

// Get возвращает копию записи.
func (r *MemoryPostRepository) Get(_ context.Context, key postkey.Key) (*model.PostRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

// QueryPage возвращает страницу записей владельца.
func (r *MemoryPostRepository) QueryPage(_ context.Context, ownerKey, cursor string) (*Page, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	if cursor == "" {
		after = postkey.Key{Owner: ownerKey}
	}
	return r.page(after, func(k postkey.Key) bool {
		return k.Owner == ownerKey && isPostKey(k)
	}), nil
}

// ScanPage возвращает страницу всех записей.
func (r *MemoryPostRepository) ScanPage(_ context.Context, cursor string) (*Page, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	return r.page(after, isPostKey), nil
}

// UpdateEnrichment обновляет image и labels существующей записи.
func (r *MemoryPostRepository) UpdateEnrichment(_ context.Context, key postkey.Key, image string, labels []string) (*model.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if labels == nil {
		labels = []string{}
	}
	img := image
	rec.Image = &img
	rec.RawLabels = append([]string(nil), labels...)
	return copyRecord(rec), nil
}

// Delete удаляет запись и возвращает её прежнее содержимое.
func (r *MemoryPostRepository) Delete(_ context.Context, key postkey.Key) (*model.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.items, key)
	return rec, nil
}

// Len возвращает количество записей.
func (r *MemoryPostRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// CheckReady — in-memory хранилище всегда готово.
func (r *MemoryPostRepository) CheckReady() (status string, message string) {
	return "ok", "in-memory"
}

// page собирает до pageSize записей с ключом строго больше after.
func (r *MemoryPostRepository) page(after postkey.Key, match func(postkey.Key) bool) *Page {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]postkey.Key, 0, len(r.items))
	for k := range r.items {
		if match(k) && keyLess(after, k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	page := &Page{Items: make([]*model.PostRecord, 0, min(len(keys), r.pageSize))}
	for _, k := range keys {
		if len(page.Items) == r.pageSize {
			last := page.Items[len(page.Items)-1]
			page.Next = encodeCursor(postkey.Key{Owner: last.OwnerKey, Post: last.PostKey})
			break
		}
		page.Items = append(page.Items, copyRecord(r.items[k]))
	}
	return page
}

// isPostKey отбирает ключи с префиксами владельца и поста.
func isPostKey(k postkey.Key) bool {
	return strings.HasPrefix(k.Owner, postkey.OwnerPrefix) && strings.HasPrefix(k.Post, postkey.PostPrefix)
}

func keyLess(a, b postkey.Key) bool {
	if a.Owner != b.Owner {
		return a.Owner < b.Owner
	}
	return a.Post < b.Post
}
