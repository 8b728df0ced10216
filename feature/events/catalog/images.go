package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"event-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// maxImageBytes bounds a single image download.
const maxImageBytes = 10 << 20

// ImageStore downloads event images and stores them in object storage.
// All of its failures are best-effort: callers log and move on.
type ImageStore struct {
	client storage.Client
	bucket string
	http   *http.Client
	logger *zap.Logger
}

// NewImageStore creates an image store writing into the given bucket.
func NewImageStore(client storage.Client, bucket string, logger *zap.Logger) *ImageStore {
	return &ImageStore{
		client: client,
		bucket: bucket,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Fetch downloads imageURL and stores it under a per-event object key.
// It returns the stored object key.
func (s *ImageStore) Fetch(ctx context.Context, source Source, externalID, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("image download failed: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("image read failed: %w", err)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	objectName := fmt.Sprintf("events/images/%s/%s", source, externalID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	return objectName, nil
}

func (s *ImageStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("bucket create failed: %w", err)
	}
	return nil
}
