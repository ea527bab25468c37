package minio_storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ResourceStorage struct {
	bucket *bucket
}

func NewResourceStorage(ctx context.Context, storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*ResourceStorage, error) {
	b, err := newBucket(ctx, storage, bucketName, presignedTTL)
	if err != nil {
		return nil, err
	}
	return &ResourceStorage{bucket: b}, nil
}

const materialsPrefix = "courses/lessons/materials"

// MaterialObjectKey groups uploads by course:
// courses/lessons/materials/<course dir>/<uuid>_<file>. The uuid keeps two uploads
// of the same file name apart.
func MaterialObjectKey(courseName, filename string) string {
	dir := keySegment(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(courseName)), " ", "_"), "course")
	name := keySegment(path.Base(strings.ReplaceAll(filename, "\\", "/")), "file")
	return path.Join(materialsPrefix, dir, uuid.NewString()+"_"+name)
}

// keySegment reduces s to a single path element with no separators or dot runs.
func keySegment(s, fallback string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", ".")
	}
	s = strings.Trim(s, "._")
	if s == "" {
		return fallback
	}
	return s
}

func (s *ResourceStorage) UploadResource(
	ctx context.Context,
	courseName, filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	objectKey = MaterialObjectKey(courseName, filename)
	if err := s.bucket.put(ctx, objectKey, reader, size, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *ResourceStorage) ResourceURL(ctx context.Context, objectKey string) (string, error) {
	return s.bucket.presign(ctx, objectKey)
}
