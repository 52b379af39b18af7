// Пакет seed — начальное наполнение хранилища постов.
// Читает YAML-список постов, загружает изображения из локального каталога
// в bucket и записывает посты через фасад хранилища.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
)

// ErrInvalidItem — запись seed-файла не проходит проверку.
var ErrInvalidItem = errors.New("некорректная запись seed-файла")

// Item — пост в seed-файле. Идентификаторы без префиксов ключей.
type Item struct {
	User   string   `yaml:"user"`
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Body   string   `yaml:"body"`
	Image  string   `yaml:"image,omitempty"`
	Labels []string `yaml:"labels,omitempty"`
}

// File — корень seed-файла.
type File struct {
	Posts []Item `yaml:"posts"`
}

// Load читает и проверяет seed-файл.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения seed-файла: %w", err)
	}
	return Parse(data)
}

// Parse разбирает содержимое seed-файла и проверяет каждую запись.
func Parse(data []byte) ([]Item, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ошибка разбора seed-файла: %w", err)
	}

	seen := make(map[postkey.Key]int, len(f.Posts))
	for i, item := range f.Posts {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("запись %d: %w", i, err)
		}
		key := postkey.Encode(item.User, item.ID)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: запись %d повторяет запись %d (%s/%s)", ErrInvalidItem, i, prev, item.User, item.ID)
		}
		seen[key] = i
	}
	return f.Posts, nil
}

// Validate проверяет идентификаторы и путь изображения записи.
// Путь изображения должен принадлежать посту: "<user>/<id>/<file>".
func (it Item) Validate() error {
	if err := postkey.ValidateID(it.User); err != nil {
		return fmt.Errorf("%w: user: %v", ErrInvalidItem, err)
	}
	if err := postkey.ValidateID(it.ID); err != nil {
		return fmt.Errorf("%w: id: %v", ErrInvalidItem, err)
	}
	if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Body) == "" {
		return fmt.Errorf("%w: title и body обязательны", ErrInvalidItem)
	}
	if it.Image == "" {
		return nil
	}

	ref, err := postkey.ParseObjectPath(it.Image)
	if err != nil {
		return fmt.Errorf("%w: image: %v", ErrInvalidItem, err)
	}
	if ref.OwnerID != it.User || ref.PostID != it.ID {
		return fmt.Errorf("%w: image %q не принадлежит посту %s/%s", ErrInvalidItem, it.Image, it.User, it.ID)
	}
	return nil
}

// Post преобразует запись в доменную модель.
func (it Item) Post() *model.Post {
	post := &model.Post{
		OwnerID: it.User,
		PostID:  it.ID,
		Title:   it.Title,
		Body:    it.Body,
		Labels:  it.Labels,
	}
	if it.Image != "" {
		image := it.Image
		post.Image = &image
	}
	return post
}
