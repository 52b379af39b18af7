// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — пост не найден.
	ErrNotFound = errors.New("пост не найден")
	// ErrPostNotFound — пост для обогащения не найден (запись не создаётся).
	ErrPostNotFound = ErrNotFound
	// ErrStoreWrite — ошибка записи в хранилище постов.
	ErrStoreWrite = errors.New("ошибка записи в хранилище постов")
	// ErrStoreRead — ошибка чтения из хранилища постов.
	ErrStoreRead = errors.New("ошибка чтения из хранилища постов")
	// ErrRecognition — сервис распознавания вернул ошибку.
	ErrRecognition = errors.New("ошибка сервиса распознавания")
	// ErrCredentialIssuance — не удалось выпустить URL загрузки.
	ErrCredentialIssuance = errors.New("не удалось выпустить URL загрузки")
	// ErrBlobDelete — не удалось удалить объект изображения.
	ErrBlobDelete = errors.New("не удалось удалить объект изображения")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)
