// Package storage fetches sample bytes from the pipeline's object store so
// the external classifiers, which all want a file path, can run on them.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sample-pipeline/file-detection/internal/config"
	"sample-pipeline/file-detection/internal/model"
)

// Store materializes a sample on local disk for classification.
type Store interface {
	// Fetch downloads the sample and returns a temp file path plus a
	// cleanup func the caller must run when done.
	Fetch(ctx context.Context, s model.Sample) (string, func(), error)
}

type s3Store struct {
	api           *minio.Client
	defaultBucket string
	timeout       time.Duration
}

func NewS3(cfg config.S3Config) (Store, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	to := cfg.Timeout
	if to == 0 {
		to = 60 * time.Second
	}
	return &s3Store{api: api, defaultBucket: cfg.Bucket, timeout: to}, nil
}

func (s *s3Store) Fetch(ctx context.Context, sample model.Sample) (string, func(), error) {
	bucket := sample.Bucket
	if bucket == "" {
		bucket = s.defaultBucket
	}
	if bucket == "" || sample.Key == "" {
		return "", nil, fmt.Errorf("sample %s: no bucket/key to fetch from", sample.Ident())
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	obj, err := s.api.GetObject(cctx, bucket, sample.Key, minio.GetObjectOptions{})
	if err != nil {
		return "", nil, fmt.Errorf("get %s/%s: %w", bucket, sample.Key, err)
	}
	defer obj.Close()

	f, err := os.CreateTemp("", "sample-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, obj); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("download %s/%s: %w", bucket, sample.Key, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}
