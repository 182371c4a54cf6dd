package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxReceiptSize    = 5 * 1024 * 1024 // 5 MB
	receiptPathPrefix = "receipts"
)

var (
	ErrFileTooBig           = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType      = errors.New("invalid file type, only JPEG, PNG and PDF receipts are allowed")
	ErrBucketCreationFailed = errors.New("failed to create storage bucket")
	ErrUploadFailed         = errors.New("failed to upload file")

	allowedReceiptTypes = map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"application/pdf": ".pdf",
	}
)

// ReceiptStorage persists receipt documents and yields the reference
// stored on the warranty row.
type ReceiptStorage interface {
	StoreReceipt(ctx context.Context, userID string, warrantyID uuid.UUID, file io.Reader, fileSize int64, contentType string) (string, error)
}

// MinIOReceiptStorage stores receipts in an S3-compatible bucket,
// namespaced per owner. The bucket is created lazily so an unreachable
// object store does not block startup.
type MinIOReceiptStorage struct {
	client     *minio.Client
	bucketName string

	mu      sync.Mutex
	ensured bool
}

func NewMinIOReceiptStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOReceiptStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOReceiptStorage{client: client, bucketName: bucketName}, nil
}

// ensureBucketExists creates the bucket on first use. Serialized so
// concurrent uploads do not race on the flag; a failed attempt leaves
// it unset and the next upload retries.
func (s *MinIOReceiptStorage) ensureBucketExists(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("%w: check bucket existence: %v", ErrBucketCreationFailed, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket: %v", ErrBucketCreationFailed, err)
		}
	}
	s.ensured = true
	return nil
}

func (s *MinIOReceiptStorage) StoreReceipt(ctx context.Context, userID string, warrantyID uuid.UUID, file io.Reader, fileSize int64, contentType string) (string, error) {
	if fileSize > maxReceiptSize {
		return "", ErrFileTooBig
	}
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	ext, allowed := allowedReceiptTypes[normalized]
	if !allowed {
		return "", ErrInvalidFileType
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s/%s%s", receiptPathPrefix, userID, warrantyID, ext)
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, file, fileSize, minio.PutObjectOptions{
		ContentType: normalized,
		UserMetadata: map[string]string{
			"User-ID":     userID,
			"Warranty-ID": warrantyID.String(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return "/" + objectKey, nil
}

// LocalReceiptStorage produces the static upload path served by the
// web tier when no object store is configured. The file body is not
// persisted here; the path is just the reference the frontend uses.
type LocalReceiptStorage struct{}

func NewLocalReceiptStorage() *LocalReceiptStorage {
	return &LocalReceiptStorage{}
}

func (s *LocalReceiptStorage) StoreReceipt(_ context.Context, userID string, warrantyID uuid.UUID, _ io.Reader, fileSize int64, contentType string) (string, error) {
	if fileSize > maxReceiptSize {
		return "", ErrFileTooBig
	}
	if contentType != "" {
		if _, allowed := allowedReceiptTypes[strings.ToLower(strings.TrimSpace(contentType))]; !allowed {
			return "", ErrInvalidFileType
		}
	}
	return fmt.Sprintf("/uploads/%s/%s.jpg", userID, warrantyID), nil
}
