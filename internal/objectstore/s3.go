package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/havenly/property-service/internal/config"
)

// Presigner issues time-limited upload URLs for document files.
type Presigner interface {
	PresignPut(ctx context.Context, key, mimeType string) (string, error)
}

// Client wraps an S3-compatible object store (MinIO in development).
type Client struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewClient builds an object store client from configuration.
func NewClient(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     cfg.PresignTTL(),
	}, nil
}

// PresignPut returns a presigned PUT URL for the given storage key.
func (c *Client) PresignPut(ctx context.Context, key, mimeType string) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mimeType),
	}, s3.WithPresignExpires(c.ttl))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

// NewStorageKey builds a unique object key scoped to an owner.
func NewStorageKey(ownerID, fileName string) string {
	return fmt.Sprintf("documents/%s/%s-%s", ownerID, uuid.NewString(), fileName)
}
