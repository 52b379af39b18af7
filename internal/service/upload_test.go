package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bigkaa/postgram/internal/domain/postkey"
	"github.com/bigkaa/postgram/internal/objectstore"
)

// mockPresigner — мок UploadPresigner и ReadPresigner.
type mockPresigner struct {
	putKey         string
	putContentType string
	ttl            time.Duration
	calls          int
	err            error
}

func (m *mockPresigner) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (*objectstore.PresignedRequest, error) {
	m.calls++
	m.putKey, m.putContentType, m.ttl = key, contentType, ttl
	if m.err != nil {
		return nil, m.err
	}
	return &objectstore.PresignedRequest{
		URL:    "https://photos.s3.amazonaws.com/" + key + "?X-Amz-Signature=sig",
		Method: http.MethodPut,
	}, nil
}

func (m *mockPresigner) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.calls++
	m.ttl = ttl
	if m.err != nil {
		return "", m.err
	}
	return "https://photos.s3.amazonaws.com/" + key + "?X-Amz-Signature=get", nil
}

func TestUploadService_IssueUploadCredential(t *testing.T) {
	presigner := &mockPresigner{}
	svc := NewUploadService(presigner, time.Hour, testLogger())

	cred, err := svc.IssueUploadCredential(context.Background(), "hero.jpeg", "image/jpeg", "post-1", "Deku")
	if err != nil {
		t.Fatalf("IssueUploadCredential ошибка: %v", err)
	}

	ref, err := postkey.ParseObjectPath(cred.ObjectPath)
	if err != nil {
		t.Fatalf("ObjectPath %q не разбирается: %v", cred.ObjectPath, err)
	}
	if ref.OwnerID != "Deku" || ref.PostID != "post-1" {
		t.Errorf("ObjectPath = %q, ожидались сырые Deku/post-1", cred.ObjectPath)
	}
	if !strings.HasSuffix(cred.ObjectPath, ".jpeg") {
		t.Errorf("ObjectPath = %q, ожидалось расширение .jpeg", cred.ObjectPath)
	}
	if presigner.putKey != cred.ObjectPath || presigner.putContentType != "image/jpeg" {
		t.Errorf("подписан %q (%q)", presigner.putKey, presigner.putContentType)
	}
	if presigner.ttl != time.Hour {
		t.Errorf("ttl = %v, ожидался 1h", presigner.ttl)
	}
	if !strings.Contains(cred.UploadURL, cred.ObjectPath) {
		t.Errorf("UploadURL = %q", cred.UploadURL)
	}

	again, _ := svc.IssueUploadCredential(context.Background(), "hero.jpeg", "image/jpeg", "post-1", "Deku")
	if again.ObjectPath == cred.ObjectPath {
		t.Error("повторный запрос вернул тот же путь объекта")
	}
}

func TestUploadService_Validation(t *testing.T) {
	presigner := &mockPresigner{}
	svc := NewUploadService(presigner, time.Hour, testLogger())

	cases := []struct{ filename, contentType, postID, ownerID string }{
		{"", "image/png", "p", "o"},
		{"a.png", "", "p", "o"},
		{"a.png", "image/png", "", "o"},
		{"a.png", "image/png", "p", ""},
		{"a.png", "image/png", "p/x", "o"},
		{"a.png", "image/png", "p", "o/y"},
	}
	for _, c := range cases {
		_, err := svc.IssueUploadCredential(context.Background(), c.filename, c.contentType, c.postID, c.ownerID)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%+v: ошибка = %v, ожидался ErrValidation", c, err)
		}
	}
	if presigner.calls != 0 {
		t.Errorf("обращений к хранилищу: %d, ожидалось 0", presigner.calls)
	}
}

func TestUploadService_BackendFailure(t *testing.T) {
	cause := errors.New("expired token")
	svc := NewUploadService(&mockPresigner{err: cause}, time.Hour, testLogger())

	_, err := svc.IssueUploadCredential(context.Background(), "a.png", "image/png", "p", "o")
	if !errors.Is(err, ErrCredentialIssuance) || !errors.Is(err, cause) {
		t.Errorf("ошибка = %v, ожидался ErrCredentialIssuance с причиной", err)
	}
}

func TestReadURLService(t *testing.T) {
	presigner := &mockPresigner{}
	svc := NewReadURLService(presigner, 30*time.Minute, testLogger())
	ctx := context.Background()

	if got := svc.ReadURL(ctx, ""); got != nil {
		t.Errorf("ReadURL(\"\") = %q, ожидался nil", *got)
	}
	if presigner.calls != 0 {
		t.Error("для пустого пути выполнена подпись")
	}

	got := svc.ReadURL(ctx, "Deku/p1/x.jpeg")
	if got == nil || !strings.Contains(*got, "Deku/p1/x.jpeg") {
		t.Fatalf("ReadURL = %v", got)
	}
	if presigner.ttl != 30*time.Minute {
		t.Errorf("ttl = %v", presigner.ttl)
	}

	failing := NewReadURLService(&mockPresigner{err: errors.New("boom")}, time.Hour, testLogger())
	if got := failing.ReadURL(ctx, "Deku/p1/x.jpeg"); got != nil {
		t.Errorf("ReadURL при ошибке = %q, ожидался nil", *got)
	}
}
