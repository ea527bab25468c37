package minio_storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type ImageStorage struct {
	bucket *bucket
}

func NewImageStorage(ctx context.Context, storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*ImageStorage, error) {
	b, err := newBucket(ctx, storage, bucketName, presignedTTL)
	if err != nil {
		return nil, err
	}
	return &ImageStorage{bucket: b}, nil
}

func (s *ImageStorage) UploadImage(
	ctx context.Context,
	courseID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey = fmt.Sprintf("courses/images/%s%s", courseID.String(), ext)
	if err := s.bucket.put(ctx, objectKey, reader, size, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *ImageStorage) ImageURL(ctx context.Context, objectKey string) (string, error) {
	return s.bucket.presign(ctx, objectKey)
}

func (s *ImageStorage) DeleteImage(ctx context.Context, objectKey string) error {
	return s.bucket.remove(ctx, objectKey)
}
