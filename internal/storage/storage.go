// Package storage publishes and restores snapshot files through an
// S3-compatible bucket. The fetch tool publishes after a successful run;
// the API restores when its local snapshot is missing.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/roledad/visa-wait-time/platform/config"
	"github.com/roledad/visa-wait-time/platform/logger"
)

// latestPrefix holds the restore point; every published run is also kept
// under its own run key.
const (
	latestPrefix = "latest"
	runsPrefix   = "runs"
)

// Store is the snapshot bucket client.
type Store struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// New creates a snapshot store. MinIO must be configured.
func New(cfg config.StorageConfig, log *logger.Logger) (*Store, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	return &Store{
		client: client,
		bucket: cfg.GetSnapshotBucket(),
		log:    log,
	}, nil
}

// EnsureBucket creates the snapshot bucket if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		s.log.Info("snapshot bucket created", "bucket", s.bucket)
	}
	return nil
}

// PublishSnapshot uploads the named files from dataDir under a fresh run
// key and refreshes the latest restore point. Returns the run key.
func (s *Store) PublishSnapshot(ctx context.Context, dataDir string, names []string) (string, error) {
	runKey := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])

	for _, name := range names {
		localPath := filepath.Join(dataDir, name)
		contentType := contentTypeFor(name)

		for _, key := range []string{
			path.Join(runsPrefix, runKey, name),
			path.Join(latestPrefix, name),
		} {
			_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
				ContentType: contentType,
			})
			if err != nil {
				return "", fmt.Errorf("upload %s: %w", key, err)
			}
		}
		s.log.Info("snapshot file published", "file", name, "run", runKey)
	}

	return runKey, nil
}

// Restore downloads the latest copy of the named file into dataDir.
// Returns false without error when the bucket has no such file.
func (s *Store) Restore(ctx context.Context, dataDir, name string) (bool, error) {
	key := path.Join(latestPrefix, name)

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}

	localPath := filepath.Join(dataDir, name)
	if err := s.client.FGetObject(ctx, s.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return false, fmt.Errorf("download %s: %w", key, err)
	}

	s.log.Info("snapshot file restored", "file", name, "bucket", s.bucket)
	return true, nil
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/x-yaml"
	default:
		return "application/octet-stream"
	}
}
