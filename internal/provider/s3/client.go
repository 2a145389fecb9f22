// Package s3 implements the Provider interface over an S3-compatible
// bucket, for deployments that self-host the media instead of using
// the hosted service.
package s3

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/galleria-go/internal/provider"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
	"github.com/galleria-go/pkg/metrics"
)

type Client struct {
	s3     s3iface.S3API
	bucket string
	logger logger.Logger
}

func NewClient(cfg config.S3Config, log logger.Logger) (*Client, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Client{
		s3:     s3.New(sess),
		bucket: cfg.Bucket,
		logger: log,
	}, nil
}

// ListFiles returns every object in the bucket. The gallery holds tens
// to low hundreds of files, so a single unpaginated listing suffices.
func (c *Client) ListFiles(ctx context.Context) ([]provider.FileInfo, error) {
	start := time.Now()
	out, err := c.s3.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	})
	metrics.ProviderCallDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("failed to list bucket %s: %w", c.bucket, err)
	}
	metrics.ProviderCallsTotal.WithLabelValues("list", "ok").Inc()
	c.logger.Debug("Listed bucket", "bucket", c.bucket, "objects", len(out.Contents))

	infos := make([]provider.FileInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		info := provider.FileInfo{
			Key:  aws.StringValue(obj.Key),
			Name: path.Base(aws.StringValue(obj.Key)),
			Size: aws.Int64Value(obj.Size),
		}
		if obj.LastModified != nil {
			info.UploadedAt = *obj.LastModified
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (c *Client) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	_, err := c.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	metrics.ProviderCallDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	metrics.ProviderCallsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}
