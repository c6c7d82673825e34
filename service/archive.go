package service

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/config"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/pkg/logger"
)

// ArchiveService keeps a copy of each uploaded document in object storage
// for later audit. Only the source PDF is archived, never the analysis.
// When no endpoint is configured the service is a no-op.
type ArchiveService struct {
	client *minio.Client
	bucket string
}

func NewArchiveService(cfg *config.ArchiveConfig) (*ArchiveService, error) {
	if cfg.Endpoint == "" {
		return &ArchiveService{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Enabled reports whether archival is configured.
func (s *ArchiveService) Enabled() bool {
	return s.client != nil
}

// EnsureBucket creates the archive bucket if it doesn't exist.
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Store writes one uploaded document under the given object name. Archive
// failures are logged by the caller and never fail the analysis request.
func (s *ArchiveService) Store(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if !s.Enabled() {
		return nil
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to archive document: %w", err)
	}

	logger.Debug(ctx, "document archived", "object", objectName, "bytes", size)
	return nil
}
