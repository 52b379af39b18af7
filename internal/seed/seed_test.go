package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bigkaa/postgram/internal/domain/model"
)

const sample = `
posts:
  - user: Deku
    id: 60888533-cc26-4e59-93ab-6964850ed447
    title: All Might
    body: Символ мира
    image: Deku/60888533-cc26-4e59-93ab-6964850ed447/all might.jpeg
  - user: Link
    id: 915d2d13-cea2-4b80-8c5b-e90295b16876
    title: Master Sword
    body: Легендарный меч
    labels: [Sword, Weapon]
`

// --- Моки ---

type fakePosts struct {
	mu     sync.Mutex
	posts  []*model.Post
	failID string
}

func (f *fakePosts) Import(_ context.Context, post *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post.PostID == f.failID {
		return errors.New("ProvisionedThroughputExceeded")
	}
	f.posts = append(f.posts, post)
	return nil
}

type fakeObjects struct {
	mu    sync.Mutex
	puts  map[string]string
	types map[string]string
}

func (f *fakeObjects) Put(_ context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.puts == nil {
		f.puts, f.types = map[string]string{}, map[string]string{}
	}
	f.puts[key] = string(data)
	f.types[key] = contentType
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Тесты ---

func TestParse(t *testing.T) {
	items, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse ошибка: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("записей = %d, ожидалось 2", len(items))
	}

	post := items[0].Post()
	if post.Image == nil || *post.Image != "Deku/60888533-cc26-4e59-93ab-6964850ed447/all might.jpeg" {
		t.Errorf("Image = %v", post.Image)
	}
	if items[1].Post().Image != nil {
		t.Error("пост без изображения получил Image")
	}
	if got := items[1].Labels; len(got) != 2 || got[0] != "Sword" {
		t.Errorf("Labels = %v", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"чужое изображение": `
posts:
  - {user: Deku, id: p1, title: t, body: b, image: Bakugo/p1/x.png}`,
		"короткий путь": `
posts:
  - {user: Deku, id: p1, title: t, body: b, image: Deku/x.png}`,
		"слеш в id": `
posts:
  - {user: Deku, id: p/1, title: t, body: b}`,
		"без title": `
posts:
  - {user: Deku, id: p1, body: b}`,
		"дубликат": `
posts:
  - {user: Deku, id: p1, title: t, body: b}
  - {user: Deku, id: p1, title: t2, body: b2}`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); !errors.Is(err, ErrInvalidItem) {
				t.Errorf("ошибка = %v, ожидалась ErrInvalidItem", err)
			}
		})
	}

	if _, err := Parse([]byte("posts: [")); err == nil {
		t.Error("ожидалась ошибка разбора YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	items, err := Load(path)
	if err != nil || len(items) != 2 {
		t.Fatalf("Load = %d записей, ошибка %v", len(items), err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("ожидалась ошибка для отсутствующего файла")
	}
}

func TestImporter_Run(t *testing.T) {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "u1", "p1")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imgDir, "cat.png"), []byte("PNG"), 0o600); err != nil {
		t.Fatal(err)
	}

	items := []Item{
		{User: "u1", ID: "p1", Title: "t", Body: "b", Image: "u1/p1/cat.png"},
		{User: "u2", ID: "p2", Title: "t", Body: "b"},
		{User: "u3", ID: "p3", Title: "t", Body: "b", Image: "u3/p3/missing.png"},
		{User: "u4", ID: "p4", Title: "t", Body: "b"},
	}

	posts := &fakePosts{failID: "p4"}
	objects := &fakeObjects{}
	im := NewImporter(posts, objects, Options{ImagesDir: dir, Rate: 1000, Concurrency: 2}, testLogger())

	report, err := im.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run ошибка: %v", err)
	}

	want := Report{Total: 4, Imported: 2, Images: 1, Failed: 2}
	if report != want {
		t.Errorf("report = %+v, ожидалось %+v", report, want)
	}
	if objects.puts["u1/p1/cat.png"] != "PNG" {
		t.Errorf("загруженные объекты: %v", objects.puts)
	}
	if objects.types["u1/p1/cat.png"] != "image/png" {
		t.Errorf("content type = %q", objects.types["u1/p1/cat.png"])
	}
	for _, p := range posts.posts {
		if p.PostID == "p3" {
			t.Error("пост без загруженного изображения записан")
		}
	}
}

func TestImporter_WithoutImagesDir(t *testing.T) {
	posts := &fakePosts{}
	objects := &fakeObjects{}
	im := NewImporter(posts, objects, Options{}, testLogger())

	report, err := im.Run(context.Background(), []Item{
		{User: "u1", ID: "p1", Title: "t", Body: "b", Image: "u1/p1/cat.png"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Imported != 1 || report.Images != 0 || len(objects.puts) != 0 {
		t.Errorf("report = %+v, объекты %v", report, objects.puts)
	}
	if p := posts.posts[0]; p.Image == nil || *p.Image != "u1/p1/cat.png" {
		t.Errorf("Image = %v", p.Image)
	}
}

func TestImporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := NewImporter(&fakePosts{}, &fakeObjects{}, Options{Rate: 0.001}, testLogger())
	_, err := im.Run(ctx, []Item{{User: "u", ID: "p", Title: "t", Body: "b"}})
	if err == nil {
		t.Error("ожидалась ошибка при отменённом контексте")
	}
}
