package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ivlev/sketch2html/internal/config"
)

// S3 stores uploads and documents in a bucket under <prefix>/uploads and <prefix>/outputs.
type S3 struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3 connects to S3. Static credentials are taken from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY when both are set; otherwise the default chain applies.
func NewS3(ctx context.Context, cfg config.Storage) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS region not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"); key != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN")),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func newS3(client manager.UploadAPIClient, bucket, prefix string) *S3 {
	return &S3{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}
}

func (s *S3) Save(ctx context.Context, data []byte) (Handle, error) {
	id, name := uploadName(data)
	key := s.key("uploads", name)

	if err := s.put(ctx, key, data, http.DetectContentType(data)); err != nil {
		return Handle{}, err
	}
	return Handle{ID: id, Location: s.location(key)}, nil
}

func (s *S3) Write(ctx context.Context, name string, content string) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}

	key := s.key("outputs", base)
	if err := s.put(ctx, key, []byte(content), "text/html; charset=utf-8"); err != nil {
		return "", err
	}
	return s.location(key), nil
}

func (s *S3) put(ctx context.Context, key string, data []byte, contentType string) error {
	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := s.uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s failed: %w", key, err)
	}
	return nil
}

func (s *S3) key(kind, name string) string {
	return path.Join(s.prefix, kind, name)
}

func (s *S3) location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
