package postkey

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	key := Encode("Deku", "60888533-cc26-4e59-93ab-6964850ed447")
	if key.Owner != "USER#Deku" {
		t.Errorf("Owner = %q, ожидался USER#Deku", key.Owner)
	}
	if key.Post != "POST#60888533-cc26-4e59-93ab-6964850ed447" {
		t.Errorf("Post = %q", key.Post)
	}

	if got := DecodeOwner(key.Owner); got != "Deku" {
		t.Errorf("DecodeOwner = %q, ожидался Deku", got)
	}
	if got := DecodePost(key.Post); got != "60888533-cc26-4e59-93ab-6964850ed447" {
		t.Errorf("DecodePost = %q", got)
	}
}

// TestEncode_Distinct проверяет, что разные идентификаторы дают разные ключи
// и ключ декодируется обратно в исходный идентификатор.
func TestEncode_Distinct(t *testing.T) {
	if Encode("USER#bob", "p1") == Encode("bob", "p1") {
		t.Error("владельцы USER#bob и bob получили одинаковый ключ")
	}
	if Encode("bob", "POST#p1") == Encode("bob", "p1") {
		t.Error("посты POST#p1 и p1 получили одинаковый ключ")
	}
	for _, id := range []string{"bob", "USER#bob", "POST#p1"} {
		if got := DecodeOwner(EncodeOwner(id)); got != id {
			t.Errorf("DecodeOwner(EncodeOwner(%q)) = %q", id, got)
		}
		if got := DecodePost(EncodePost(id)); got != id {
			t.Errorf("DecodePost(EncodePost(%q)) = %q", id, got)
		}
	}
}

func TestParseObjectPath(t *testing.T) {
	tests := []struct {
		path      string
		wantOwner string
		wantPost  string
		wantFile  string
		wantErr   bool
	}{
		{"owner/post/img.png", "owner", "post", "img.png", false},
		{"Deku/abc/x.jpeg", "Deku", "abc", "x.jpeg", false},
		{"a/b/nested/file.jpg", "a", "b", "nested/file.jpg", false},
		{"onlyonesegment", "", "", "", true},
		{"a/b", "", "", "", true},
		{"/b/file.png", "", "", "", true},
		{"a//file.png", "", "", "", true},
		{"", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ref, err := ParseObjectPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPath) {
					t.Fatalf("ошибка = %v, ожидался ErrMalformedPath", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if ref.OwnerID != tt.wantOwner || ref.PostID != tt.wantPost || ref.Filename != tt.wantFile {
				t.Errorf("ref = %+v, ожидалось (%s, %s, %s)", ref, tt.wantOwner, tt.wantPost, tt.wantFile)
			}
		})
	}
}

func TestDecodeObjectKey(t *testing.T) {
	tests := map[string]string{
		"Deku/p1/all+might.jpeg":       "Deku/p1/all might.jpeg",
		"Deku/p1/all%20might.jpeg":     "Deku/p1/all might.jpeg",
		"Setsuna/p2/trans+AM+00.jpg":   "Setsuna/p2/trans AM 00.jpg",
		"Link%2Fp3%2Flynel.jpg":        "Link/p3/lynel.jpg",
		"plain/path/without/escapes.x": "plain/path/without/escapes.x",
	}
	for raw, want := range tests {
		got, err := DecodeObjectKey(raw)
		if err != nil {
			t.Errorf("DecodeObjectKey(%q) ошибка: %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("DecodeObjectKey(%q) = %q, ожидалось %q", raw, got, want)
		}
	}

	if _, err := DecodeObjectKey("bad%zzescape"); !errors.Is(err, ErrMalformedPath) {
		t.Errorf("ожидался ErrMalformedPath для некорректного escape, получено: %v", err)
	}
}

func TestNewObjectPath(t *testing.T) {
	p := NewObjectPath("Deku", "post-1", "All Might.JPEG")

	ref, err := ParseObjectPath(p)
	if err != nil {
		t.Fatalf("сгенерированный путь не разбирается: %v", err)
	}
	if ref.OwnerID != "Deku" || ref.PostID != "post-1" {
		t.Errorf("ref = %+v, ожидались Deku/post-1", ref)
	}
	if !strings.HasSuffix(ref.Filename, ".JPEG") {
		t.Errorf("Filename = %q, ожидалось расширение .JPEG", ref.Filename)
	}
	// uuid (36 символов) + расширение
	if len(ref.Filename) != 36+len(".JPEG") {
		t.Errorf("Filename = %q, ожидался uuid + расширение", ref.Filename)
	}

	if p == NewObjectPath("Deku", "post-1", "All Might.JPEG") {
		t.Error("два вызова NewObjectPath вернули одинаковый путь")
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":          ".jpg",
		"archive.tar.gz":     ".gz",
		"noext":              "",
		".profile":           "",
		"trailing.":          "",
		"dir/inner.png":      ".png",
		`C:\Users\me\a.webp`: ".webp",
	}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("Deku"); err != nil {
		t.Errorf("ValidateID(Deku) ошибка: %v", err)
	}
	for _, bad := range []string{"", "  ", "a/b", "USER#bob", "POST#p1"} {
		if err := ValidateID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ValidateID(%q) = %v, ожидался ErrInvalidID", bad, err)
		}
	}
}
