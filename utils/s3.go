package utils

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PhotoArchive stores meal photos in S3 so a MealRecord's photo_reference
// outlives Telegram's file storage. A nil archive is valid and archives
// nothing.
type PhotoArchive struct {
	client *s3.Client
	bucket string
}

// NewPhotoArchive builds the archive, or returns nil when no bucket is
// configured (archiving disabled).
func NewPhotoArchive(ctx context.Context, region, bucket string) (*PhotoArchive, error) {
	if bucket == "" {
		return nil, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return &PhotoArchive{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// UploadMealPhoto stores the JPEG bytes and returns the object key.
func (a *PhotoArchive) UploadMealPhoto(ctx context.Context, userID int64, data []byte) (string, error) {
	if a == nil {
		return "", nil
	}
	key := fmt.Sprintf("meal-photos/%d-%s.jpg", userID, uuid.NewString())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}
