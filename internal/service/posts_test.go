package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sync"
	"testing"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
	"github.com/bigkaa/postgram/internal/repository"
)

// --- Моки ---

// mockBlobs — мок BlobDeleter, запоминает удалённые ключи.
type mockBlobs struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (m *mockBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return m.err
}

// countingRepo считает обращения к страницам поверх MemoryPostRepository.
type countingRepo struct {
	*repository.MemoryPostRepository
	scanCalls  int
	queryCalls int
}

func (r *countingRepo) ScanPage(ctx context.Context, cursor string) (*repository.Page, error) {
	r.scanCalls++
	return r.MemoryPostRepository.ScanPage(ctx, cursor)
}

func (r *countingRepo) QueryPage(ctx context.Context, ownerKey, cursor string) (*repository.Page, error) {
	r.queryCalls++
	return r.MemoryPostRepository.QueryPage(ctx, ownerKey, cursor)
}

// failingRepo возвращает ошибку backend'а на каждую операцию.
type failingRepo struct{ err error }

func (r failingRepo) Create(context.Context, *model.PostRecord) error { return r.err }
func (r failingRepo) Put(context.Context, *model.PostRecord) error    { return r.err }
func (r failingRepo) Get(context.Context, postkey.Key) (*model.PostRecord, error) {
	return nil, r.err
}
func (r failingRepo) QueryPage(context.Context, string, string) (*repository.Page, error) {
	return nil, r.err
}
func (r failingRepo) ScanPage(context.Context, string) (*repository.Page, error) {
	return nil, r.err
}
func (r failingRepo) UpdateEnrichment(context.Context, postkey.Key, string, []string) (*model.PostRecord, error) {
	return nil, r.err
}
func (r failingRepo) Delete(context.Context, postkey.Key) (*model.PostRecord, error) {
	return nil, r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestPostService(pageSize int) (*PostService, *repository.MemoryPostRepository, *mockBlobs) {
	repo := repository.NewMemoryPostRepository(pageSize)
	blobs := &mockBlobs{}
	return NewPostService(repo, blobs, testLogger()), repo, blobs
}

// --- Тесты PostService ---

// TestPostService_ReservedPrefixes: идентификаторы с префиксами ключей
// отклоняются на каждом входе фасада и не адресуют чужие записи.
func TestPostService_ReservedPrefixes(t *testing.T) {
	svc, repo, _ := newTestPostService(10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "USER#bob", "t", "b"); !errors.Is(err, ErrValidation) {
		t.Errorf("Create(USER#bob) ошибка = %v, ожидался ErrValidation", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("создано записей: %d, ожидалось 0", repo.Len())
	}

	post, err := svc.Create(ctx, "bob", "t", "b")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	checks := map[string]error{}
	_, checks["Get owner"] = svc.Get(ctx, "USER#bob", post.PostID)
	_, checks["Get post"] = svc.Get(ctx, "bob", "POST#"+post.PostID)
	_, checks["List"] = svc.List(ctx, "USER#bob")
	_, checks["UpdateEnrichment"] = svc.UpdateEnrichment(ctx, "bob", "POST#"+post.PostID, "bob/x/a.png", nil)
	_, checks["Delete"] = svc.Delete(ctx, "USER#bob", post.PostID)
	checks["Import"] = svc.Import(ctx, &model.Post{OwnerID: "bob", PostID: "POST#p1", Title: "t", Body: "b"})
	for name, err := range checks {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: ошибка = %v, ожидался ErrValidation", name, err)
		}
	}

	got, err := svc.Get(ctx, "bob", post.PostID)
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if got.Image != nil || repo.Len() != 1 {
		t.Errorf("запись изменена: %+v, записей %d", got, repo.Len())
	}
}

// TestPostService_Create проверяет начальное состояние поста и уникальность id.
func TestPostService_Create(t *testing.T) {
	svc, _, _ := newTestPostService(10)
	ctx := context.Background()

	p1, err := svc.Create(ctx, "Deku", "All Might", "Symbol of Peace")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if p1.Image != nil {
		t.Errorf("Image = %v, ожидался nil", *p1.Image)
	}
	if p1.Labels == nil || len(p1.Labels) != 0 {
		t.Errorf("Labels = %#v, ожидался пустой список", p1.Labels)
	}
	if p1.OwnerID != "Deku" || p1.PostID == "" {
		t.Errorf("post = %+v", p1)
	}

	p2, err := svc.Create(ctx, "Deku", "t", "b")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if p1.PostID == p2.PostID {
		t.Error("два поста получили одинаковый post_id")
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc, repo, _ := newTestPostService(10)

	cases := []struct{ owner, title, body string }{
		{"", "t", "b"},
		{"a/b", "t", "b"},
		{"Deku", "", "b"},
		{"Deku", "t", "  "},
	}
	for _, c := range cases {
		if _, err := svc.Create(context.Background(), c.owner, c.title, c.body); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%q, %q, %q) = %v, ожидался ErrValidation", c.owner, c.title, c.body, err)
		}
	}
	if repo.Len() != 0 {
		t.Errorf("после ошибок валидации в хранилище %d записей", repo.Len())
	}
}

// TestPostService_GetAfterCreateAndDelete проверяет get после create и после delete.
func TestPostService_GetAfterCreateAndDelete(t *testing.T) {
	svc, _, blobs := newTestPostService(10)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Link", "Lynel", "run")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	got, err := svc.Get(ctx, "Link", created.PostID)
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("Get = %+v, ожидалось %+v", got, created)
	}

	deleted, err := svc.Delete(ctx, "Link", created.PostID)
	if err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}
	if !reflect.DeepEqual(deleted, created) {
		t.Errorf("Delete вернул %+v, ожидалось %+v", deleted, created)
	}
	// Поста без изображения — удаления объекта нет
	if len(blobs.deleted) != 0 {
		t.Errorf("удалены объекты %v, ожидалось ни одного", blobs.deleted)
	}

	if _, err := svc.Get(ctx, "Link", created.PostID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get после Delete = %v, ожидался ErrNotFound", err)
	}
	if _, err := svc.Delete(ctx, "Link", created.PostID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete = %v, ожидался ErrNotFound", err)
	}
}

// TestPostService_DeleteWithImage проверяет удаление объекта изображения
// и то, что ошибка удаления объекта не блокирует удаление записи.
func TestPostService_DeleteWithImage(t *testing.T) {
	svc, repo, blobs := newTestPostService(10)
	ctx := context.Background()
	blobs.err = errors.New("access denied")

	p, _ := svc.Create(ctx, "Deku", "t", "b")
	path := "Deku/" + p.PostID + "/x.jpeg"
	if _, err := svc.UpdateEnrichment(ctx, "Deku", p.PostID, path, []string{"Person"}); err != nil {
		t.Fatalf("UpdateEnrichment ошибка: %v", err)
	}

	deleted, err := svc.Delete(ctx, "Deku", p.PostID)
	if err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}
	if deleted.Image == nil || *deleted.Image != path {
		t.Errorf("Delete вернул Image = %v", deleted.Image)
	}
	if !reflect.DeepEqual(blobs.deleted, []string{path}) {
		t.Errorf("удалённые объекты = %v, ожидалось [%s]", blobs.deleted, path)
	}
	if repo.Len() != 0 {
		t.Error("запись не удалена после ошибки удаления объекта")
	}
}

func TestPostService_UpdateEnrichment_NotFound(t *testing.T) {
	svc, repo, _ := newTestPostService(10)

	_, err := svc.UpdateEnrichment(context.Background(), "Ghost", "nope", "Ghost/nope/x.png", []string{"Cat"})
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("UpdateEnrichment = %v, ожидался ErrPostNotFound", err)
	}
	if repo.Len() != 0 {
		t.Errorf("создана запись-сирота: %d записей", repo.Len())
	}
}

// TestPostService_ListScanAllPages — полный scan 150 записей за 25 страниц.
func TestPostService_ListScanAllPages(t *testing.T) {
	repo := &countingRepo{MemoryPostRepository: repository.NewMemoryPostRepository(6)}
	svc := NewPostService(repo, &mockBlobs{}, testLogger())
	ctx := context.Background()

	for i := range 150 {
		owner := fmt.Sprintf("user-%02d", i%10)
		if err := svc.Import(ctx, &model.Post{
			OwnerID: owner, PostID: fmt.Sprintf("post-%03d", i), Title: "t", Body: "b",
		}); err != nil {
			t.Fatalf("Import ошибка: %v", err)
		}
	}

	posts, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(posts) != 150 {
		t.Fatalf("List вернул %d постов, ожидалось 150", len(posts))
	}
	if repo.scanCalls != 25 {
		t.Errorf("страниц scan = %d, ожидалось 25", repo.scanCalls)
	}

	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		id := p.OwnerID + "/" + p.PostID
		if seen[id] {
			t.Fatalf("пост %s возвращён дважды", id)
		}
		seen[id] = true
	}
}

func TestPostService_ListByOwner(t *testing.T) {
	repo := &countingRepo{MemoryPostRepository: repository.NewMemoryPostRepository(2)}
	svc := NewPostService(repo, &mockBlobs{}, testLogger())
	ctx := context.Background()

	for i := range 5 {
		_, _ = svc.Create(ctx, "Deku", fmt.Sprintf("t%d", i), "b")
	}
	_, _ = svc.Create(ctx, "Bakugo", "t", "b")

	posts, err := svc.List(ctx, "Deku")
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(posts) != 5 {
		t.Errorf("List(Deku) = %d постов, ожидалось 5", len(posts))
	}
	for _, p := range posts {
		if p.OwnerID != "Deku" {
			t.Errorf("пост чужого владельца: %s", p.OwnerID)
		}
	}
	if repo.scanCalls != 0 {
		t.Errorf("при заданном владельце выполнен scan (%d вызовов)", repo.scanCalls)
	}
	if repo.queryCalls != 3 {
		t.Errorf("страниц query = %d, ожидалось 3", repo.queryCalls)
	}

	empty, err := svc.List(ctx, "Nobody")
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List(Nobody) = %#v, ожидался пустой список", empty)
	}
}

// TestPostService_NormalizesStoredLabels проверяет нормализацию тегированных меток
// и снятие префиксов ключей.
func TestPostService_NormalizesStoredLabels(t *testing.T) {
	svc, repo, _ := newTestPostService(10)
	ctx := context.Background()

	key := postkey.Encode("Setsuna", "p1")
	_ = repo.Put(ctx, &model.PostRecord{
		OwnerKey:  key.Owner,
		PostKey:   key.Post,
		Title:     "Trans-Am",
		Body:      "b",
		RawLabels: []any{map[string]any{"S": "Cat"}, "Robot"},
	})

	p, err := svc.Get(ctx, "Setsuna", "p1")
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if p.OwnerID != "Setsuna" || p.PostID != "p1" {
		t.Errorf("ids = %s/%s, ожидались без префиксов", p.OwnerID, p.PostID)
	}
	if !reflect.DeepEqual(p.Labels, []string{"Cat", "Robot"}) {
		t.Errorf("Labels = %v, ожидалось [Cat Robot]", p.Labels)
	}
}

func TestPostService_BackendErrors(t *testing.T) {
	cause := errors.New("ProvisionedThroughputExceededException")
	svc := NewPostService(failingRepo{err: cause}, &mockBlobs{}, testLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Deku", "t", "b"); !errors.Is(err, ErrStoreWrite) || !errors.Is(err, cause) {
		t.Errorf("Create = %v, ожидался ErrStoreWrite с причиной", err)
	}
	if _, err := svc.Get(ctx, "Deku", "p"); !errors.Is(err, ErrStoreRead) {
		t.Errorf("Get = %v, ожидался ErrStoreRead", err)
	}
	if _, err := svc.List(ctx, ""); !errors.Is(err, ErrStoreRead) {
		t.Errorf("List = %v, ожидался ErrStoreRead", err)
	}
	if _, err := svc.UpdateEnrichment(ctx, "Deku", "p", "Deku/p/x", nil); !errors.Is(err, ErrStoreWrite) {
		t.Errorf("UpdateEnrichment = %v, ожидался ErrStoreWrite", err)
	}
	if err := svc.Import(ctx, &model.Post{OwnerID: "Deku", PostID: "p"}); !errors.Is(err, ErrStoreWrite) {
		t.Errorf("Import = %v, ожидался ErrStoreWrite", err)
	}
}
