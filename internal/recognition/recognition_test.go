package recognition

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type mockRekognition struct {
	input *rekognition.DetectLabelsInput
	out   *rekognition.DetectLabelsOutput
	err   error
}

func (m *mockRekognition) DetectLabels(_ context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	m.input = in
	return m.out, m.err
}

func TestDetectLabels(t *testing.T) {
	api := &mockRekognition{out: &rekognition.DetectLabelsOutput{Labels: []types.Label{
		{Name: aws.String("Person"), Confidence: aws.Float32(99.1)},
		{Name: aws.String("Helmet"), Confidence: aws.Float32(80.4)},
		{Name: nil},
	}}}
	client := New(api, 5, 75)

	names, err := client.DetectLabels(context.Background(), "photos", "Deku/p1/x.jpeg")
	if err != nil {
		t.Fatalf("DetectLabels() ошибка: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Person", "Helmet"}) {
		t.Errorf("names = %v, ожидалось [Person Helmet]", names)
	}

	if aws.ToInt32(api.input.MaxLabels) != 5 {
		t.Errorf("MaxLabels = %d", aws.ToInt32(api.input.MaxLabels))
	}
	if aws.ToFloat32(api.input.MinConfidence) != 75 {
		t.Errorf("MinConfidence = %v", aws.ToFloat32(api.input.MinConfidence))
	}
	obj := api.input.Image.S3Object
	if aws.ToString(obj.Bucket) != "photos" || aws.ToString(obj.Name) != "Deku/p1/x.jpeg" {
		t.Errorf("S3Object = %s/%s", aws.ToString(obj.Bucket), aws.ToString(obj.Name))
	}
}

func TestDetectLabels_NoLabels(t *testing.T) {
	client := New(&mockRekognition{out: &rekognition.DetectLabelsOutput{}}, 5, 75)

	names, err := client.DetectLabels(context.Background(), "photos", "k")
	if err != nil {
		t.Fatalf("DetectLabels() ошибка: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("names = %#v, ожидался пустой срез", names)
	}
}

func TestDetectLabels_Error(t *testing.T) {
	cause := errors.New("InvalidImageFormatException")
	client := New(&mockRekognition{err: cause}, 5, 75)

	if _, err := client.DetectLabels(context.Background(), "photos", "k"); !errors.Is(err, cause) {
		t.Errorf("DetectLabels() = %v, ожидалась обёрнутая причина", err)
	}
}
