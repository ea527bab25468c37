package minio_storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client *minio.Client
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{client: client}, nil
}

// bucket is one bucket of the shared client with its presign lifetime.
type bucket struct {
	storage      *MinioStorage
	name         string
	presignedTTL time.Duration
}

func newBucket(ctx context.Context, storage *MinioStorage, name string, presignedTTL time.Duration) (*bucket, error) {
	exists, err := storage.client.BucketExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", name, err)
	}
	if !exists {
		if err := storage.client.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", name, err)
		}
	}
	return &bucket{storage: storage, name: name, presignedTTL: presignedTTL}, nil
}

func (b *bucket) put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(objectKey))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	_, err := b.storage.client.PutObject(ctx, b.name, objectKey, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (b *bucket) presign(ctx context.Context, objectKey string) (string, error) {
	presignedURL, err := b.storage.client.PresignedGetObject(ctx, b.name, objectKey, b.presignedTTL, make(url.Values))
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (b *bucket) remove(ctx context.Context, objectKey string) error {
	return b.storage.client.RemoveObject(ctx, b.name, objectKey, minio.RemoveObjectOptions{})
}
