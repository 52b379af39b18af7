// Пакет model — доменные модели Posts Module.
package model

// Post — пост пользователя в том виде, в котором его видят вызывающие
// стороны за пределами фасада хранилища: идентификаторы без префиксов
// ключей, метки — плоский список строк.
type Post struct {
	// OwnerID — идентификатор автора (значение заголовка authorization)
	OwnerID string
	// PostID — UUID поста
	PostID string
	// Title — заголовок
	Title string
	// Body — текст поста
	Body string
	// Image — путь объекта в bucket; nil, пока изображение не загружено и не обработано
	Image *string
	// Labels — метки изображения; пустой срез до завершения обогащения
	Labels []string
}

// PostRecord — запись поста в хранилище.
// OwnerKey и PostKey закодированы по соглашению postkey (с префиксами),
// RawLabels — метки в том представлении, в котором их вернул backend.
type PostRecord struct {
	OwnerKey  string
	PostKey   string
	Title     string
	Body      string
	Image     *string
	RawLabels any
}

// HasImage сообщает, привязано ли к посту изображение.
func (p *Post) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}
