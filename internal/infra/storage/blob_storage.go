// Package storage implements the object-storage collaborator on top of
// gocloud.dev blob buckets, so the same code serves S3 in production and a
// local directory in development.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"estate/config"
	"estate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver
	_ "gocloud.dev/blob/s3blob"   // s3:// bucket driver
)

// Params defines the dependencies for opening the bucket.
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
}

// blobStorage writes uploads into a gocloud bucket.
type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// NewBlobStorage opens the configured bucket URL and returns the storage
// collaborator. The bucket is closed on application stop.
func NewBlobStorage(params Params) (service.FileStorage, error) {
	cfg := params.Config
	if cfg.Storage == nil || cfg.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL must be configured")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %q", cfg.Storage.BucketURL)
	}

	store := &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}

	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})

	return store, nil
}

// Upload writes the payload under a date-partitioned key and returns the
// public URL plus the key.
func (s *blobStorage) Upload(ctx context.Context, filename, contentType string, payload []byte) (*service.StoredFile, error) {
	key := buildKey(filename)

	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, payload, opts); err != nil {
		return nil, errors.Wrapf(err, "failed to write object %q", key)
	}

	return &service.StoredFile{
		URL: s.publicBaseURL + "/" + key,
		Key: key,
	}, nil
}

// buildKey derives a collision-free storage key, keeping the original
// extension so content sniffing downstream stays simple.
func buildKey(filename string) string {
	ext := path.Ext(filename)
	now := time.Now().UTC()

	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), ext)
}
