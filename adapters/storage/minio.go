// Package storage - MinIO document file store
package storage

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"agreement-engine/internal/config"
	"agreement-engine/internal/errors"
)

// MinioFileStore reads exhibit documents and templates from object storage
type MinioFileStore struct {
	client         *minio.Client
	exhibitBucket  string
	templateBucket string
}

// NewMinioFileStore connects to the object store described by cfg
func NewMinioFileStore(cfg config.DocumentStoreConfig) (*MinioFileStore, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, errors.Storage("object store client init failed", err)
	}

	return &MinioFileStore{
		client:         client,
		exhibitBucket:  cfg.ExhibitBucket,
		templateBucket: cfg.TemplateBucket,
	}, nil
}

// GetExhibitFile implements FileStore
func (s *MinioFileStore) GetExhibitFile(ctx context.Context, objectKey string) ([]byte, error) {
	return s.get(ctx, s.exhibitBucket, objectKey)
}

// GetTemplate implements FileStore
func (s *MinioFileStore) GetTemplate(ctx context.Context, name string) ([]byte, error) {
	return s.get(ctx, s.templateBucket, name)
}

func (s *MinioFileStore) get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Storage("object fetch failed: "+key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Storage("object read failed: "+key, err)
	}
	return data, nil
}
