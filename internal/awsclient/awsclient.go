// Пакет awsclient — построение клиентов aws-sdk-go-v2 из конфигурации сервиса.
// Переопределение endpoint'ов (PM_*_ENDPOINT) используется для LocalStack/MinIO.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bigkaa/postgram/internal/config"
)

// Clients — набор клиентов AWS, разделяющих одну aws.Config.
type Clients struct {
	DynamoDB    *dynamodb.Client
	S3          *s3.Client
	Rekognition *rekognition.Client
}

// LoadConfig загружает aws.Config (цепочка credentials по умолчанию) с регионом из PM_REGION.
func LoadConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("ошибка загрузки конфигурации AWS: %w", err)
	}
	return awsCfg, nil
}

// New создаёт все клиенты с учётом переопределённых endpoint'ов.
func New(awsCfg aws.Config, cfg *config.Config) *Clients {
	return &Clients{
		DynamoDB:    NewDynamoDB(awsCfg, cfg.DynamoDBEndpoint),
		S3:          NewS3(awsCfg, cfg.S3Endpoint, cfg.S3ForcePathStyle),
		Rekognition: NewRekognition(awsCfg, cfg.RekognitionEndpoint),
	}
}

// NewDynamoDB создаёт клиент DynamoDB.
func NewDynamoDB(awsCfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// NewS3 создаёт клиент S3. pathStyle включает адресацию bucket в пути (MinIO).
func NewS3(awsCfg aws.Config, endpoint string, pathStyle bool) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})
}

// NewRekognition создаёт клиент Rekognition.
func NewRekognition(awsCfg aws.Config, endpoint string) *rekognition.Client {
	return rekognition.NewFromConfig(awsCfg, func(o *rekognition.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
