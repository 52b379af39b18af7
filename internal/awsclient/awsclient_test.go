package awsclient

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/bigkaa/postgram/internal/config"
)

func TestNew_EndpointOverrides(t *testing.T) {
	awsCfg := aws.Config{Region: "eu-west-1"}
	cfg := &config.Config{
		Region:              "eu-west-1",
		DynamoDBEndpoint:    "http://localhost:4566",
		S3Endpoint:          "http://localhost:9000",
		RekognitionEndpoint: "",
		S3ForcePathStyle:    true,
	}

	clients := New(awsCfg, cfg)

	if got := aws.ToString(clients.DynamoDB.Options().BaseEndpoint); got != "http://localhost:4566" {
		t.Errorf("DynamoDB BaseEndpoint = %q", got)
	}
	s3Opts := clients.S3.Options()
	if got := aws.ToString(s3Opts.BaseEndpoint); got != "http://localhost:9000" {
		t.Errorf("S3 BaseEndpoint = %q", got)
	}
	if !s3Opts.UsePathStyle {
		t.Error("S3 UsePathStyle = false, ожидалось true")
	}
	if clients.Rekognition.Options().BaseEndpoint != nil {
		t.Error("Rekognition BaseEndpoint должен быть nil без переопределения")
	}
	if clients.S3.Options().Region != "eu-west-1" {
		t.Errorf("Region = %q", clients.S3.Options().Region)
	}
}
