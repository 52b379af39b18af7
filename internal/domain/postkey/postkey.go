// Пакет postkey — единственное место, где определено соглашение о ключах
// постов и о путях объектов в bucket.
//
// Ключи хранилища: partition key = "USER#<owner>", sort key = "POST#<post>".
// Путь объекта: "<owner>/<post>/<uuid><ext>" — owner и post всегда без
// префиксов и без кодирования, это join key между загрузкой и обогащением.
package postkey

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Префиксы ключей хранилища.
const (
	OwnerPrefix = "USER#"
	PostPrefix  = "POST#"
)

// Ошибки разбора путей и идентификаторов.
var (
	// ErrMalformedPath — путь объекта не соответствует формату owner/post/file.
	ErrMalformedPath = errors.New("некорректный путь объекта")
	// ErrInvalidID — идентификатор пуст или содержит разделитель пути.
	ErrInvalidID = errors.New("некорректный идентификатор")
)

// Key — составной ключ поста с закодированными частями.
type Key struct {
	Owner string
	Post  string
}

// Encode строит ключ хранилища из сырых идентификаторов.
func Encode(ownerID, postID string) Key {
	return Key{Owner: EncodeOwner(ownerID), Post: EncodePost(postID)}
}

// EncodeOwner добавляет префикс владельца. Префикс добавляется всегда,
// поэтому разные идентификаторы дают разные ключи.
func EncodeOwner(ownerID string) string {
	return OwnerPrefix + ownerID
}

// EncodePost добавляет префикс поста.
func EncodePost(postID string) string {
	return PostPrefix + postID
}

// DecodeOwner убирает префикс владельца, если он есть.
func DecodeOwner(ownerKey string) string {
	return strings.TrimPrefix(ownerKey, OwnerPrefix)
}

// DecodePost убирает префикс поста, если он есть.
func DecodePost(postKey string) string {
	return strings.TrimPrefix(postKey, PostPrefix)
}

// ValidateID проверяет, что идентификатор можно использовать сегментом пути объекта
// и частью ключа хранилища: непустой, без '/' и без префиксов USER# / POST#.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: пустое значение", ErrInvalidID)
	}
	if strings.Contains(id, "/") {
		return fmt.Errorf("%w: %q содержит '/'", ErrInvalidID, id)
	}
	if strings.HasPrefix(id, OwnerPrefix) || strings.HasPrefix(id, PostPrefix) {
		return fmt.Errorf("%w: %q начинается с зарезервированного префикса ключа", ErrInvalidID, id)
	}
	return nil
}

// NewObjectPath возвращает путь объекта для загрузки изображения поста:
// "<owner>/<post>/<uuid><расширение filename>".
func NewObjectPath(ownerID, postID, filename string) string {
	return fmt.Sprintf("%s/%s/%s%s", ownerID, postID, uuid.NewString(), Extension(filename))
}

// Extension возвращает расширение имени файла с точкой ("" если его нет).
// Скрытые файлы без расширения (".profile") расширения не имеют.
func Extension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := path.Ext(base)
	if ext == base || ext == "." {
		return ""
	}
	return ext
}

// ObjectRef — идентичность поста, восстановленная из пути объекта.
type ObjectRef struct {
	OwnerID  string
	PostID   string
	Filename string
}

// DecodeObjectKey декодирует ключ объекта из уведомления хранилища
// (percent-encoding, '+' означает пробел).
func DecodeObjectKey(raw string) (string, error) {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedPath, raw, err)
	}
	return key, nil
}

// ParseObjectPath разбирает декодированный путь "<owner>/<post>/<file...>".
// Путь из менее чем трёх сегментов или с пустыми owner/post — ErrMalformedPath.
func ParseObjectPath(objectPath string) (ObjectRef, error) {
	parts := strings.SplitN(objectPath, "/", 3)
	if len(parts) < 3 {
		return ObjectRef{}, fmt.Errorf("%w: %q, ожидается owner/post/filename", ErrMalformedPath, objectPath)
	}
	if parts[0] == "" || parts[1] == "" {
		return ObjectRef{}, fmt.Errorf("%w: %q содержит пустой owner или post", ErrMalformedPath, objectPath)
	}
	return ObjectRef{OwnerID: parts[0], PostID: parts[1], Filename: parts[2]}, nil
}
