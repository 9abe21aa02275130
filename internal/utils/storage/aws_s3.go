package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"Grocery-Receipt-Tracker/internal/utils"
)

type (
	AwsS3 interface {
		// Enabled reports whether a bucket is configured. Archival is skipped
		// entirely when it is not.
		Enabled() bool
		UploadBytes(ctx context.Context, fileName string, data []byte, contentType string, dir string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")

	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		utils.GetLogger().WithError(err).Warn("failed to load AWS config, S3 archival disabled")
		return &awsS3{}
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}
}

func (a *awsS3) Enabled() bool {
	return a.client != nil && a.bucket != ""
}

func (a *awsS3) UploadBytes(ctx context.Context, fileName string, data []byte, contentType string, dir string) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("s3 storage is not configured")
	}

	objectKey := fileName
	if dir != "" {
		objectKey = fmt.Sprintf("%s/%s", strings.Trim(dir, "/"), fileName)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &objectKey,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading object %s: %w", objectKey, err)
	}

	return objectKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if !a.Enabled() {
		return fmt.Errorf("s3 storage is not configured")
	}

	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &a.bucket,
		Key:    &objectKey,
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	if objectKey == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}
