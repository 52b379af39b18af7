// Пакет recognition — распознавание меток изображений через Amazon Rekognition.
package recognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionAPI — используемое подмножество методов *rekognition.Client.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Client — распознавание меток объекта в bucket.
type Client struct {
	api           RekognitionAPI
	maxLabels     int32
	minConfidence float32
}

// New создаёт клиент распознавания с параметрами PM_LABELS_MAX / PM_LABELS_MIN_CONFIDENCE.
func New(api RekognitionAPI, maxLabels int, minConfidence float64) *Client {
	return &Client{
		api:           api,
		maxLabels:     int32(maxLabels), //nolint:gosec // ограничено в config
		minConfidence: float32(minConfidence),
	}
}

// DetectLabels возвращает имена меток изображения bucket/key.
// Возвращается только имя метки, уверенность и рамки отбрасываются.
func (c *Client) DetectLabels(ctx context.Context, bucket, key string) ([]string, error) {
	resp, err := c.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
		MaxLabels:     aws.Int32(c.maxLabels),
		MinConfidence: aws.Float32(c.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("DetectLabels %s/%s: %w", bucket, key, err)
	}

	names := make([]string, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		if name := aws.ToString(l.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
