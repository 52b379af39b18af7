// Пакет objectstore — работа с bucket изображений постов (S3 / S3-совместимое хранилище).
// Presigned PUT для прямой загрузки клиентом, presigned GET для чтения,
// удаление объекта при удалении поста, загрузка объектов seed-инструментом.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API — используемое подмножество методов *s3.Client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Presigner — используемое подмножество методов *s3.PresignClient.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignedRequest — подписанный запрос, который клиент выполняет сам.
type PresignedRequest struct {
	URL    string
	Method string
	Header http.Header
}

// Store — объектное хранилище одного bucket.
type Store struct {
	client    S3API
	presigner Presigner
	bucket    string
}

// New создаёт Store поверх *s3.Client.
func New(client *s3.Client, bucket string) *Store {
	return NewWithClients(client, s3.NewPresignClient(client), bucket)
}

// NewWithClients создаёт Store из произвольных реализаций S3API и Presigner.
func NewWithClients(client S3API, presigner Presigner, bucket string) *Store {
	return &Store{client: client, presigner: presigner, bucket: bucket}
}

// PresignPut возвращает presigned PUT, привязанный к ключу и Content-Type.
func (s *Store) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*PresignedRequest, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи PUT для %s: %w", key, err)
	}
	return &PresignedRequest{URL: req.URL, Method: req.Method, Header: req.SignedHeader}, nil
}

// PresignGet возвращает presigned GET URL объекта.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи GET для %s: %w", key, err)
	}
	return req.URL, nil
}

// Put загружает объект в bucket.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("ошибка загрузки объекта %s: %w", key, err)
	}
	return nil
}

// Delete удаляет объект. Удаление отсутствующего объекта S3 не считает ошибкой.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("ошибка удаления объекта %s: %w", key, err)
	}
	return nil
}

// CheckReady проверяет доступность bucket через HeadBucket.
// Реализует интерфейс handlers.ReadinessChecker.
func (s *Store) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return "fail", fmt.Sprintf("bucket %s недоступен: %v", s.bucket, err)
	}
	return "ok", "bucket доступен"
}
