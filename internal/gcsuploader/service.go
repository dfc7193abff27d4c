package gcsuploader

import (
	"context"

	"github.com/dvloznov/statement-normalizer/internal/gcs"
)

// GCSStorageService is the concrete implementation of gcs.StorageService
// backed by Google Cloud Storage.
type GCSStorageService struct{}

var _ gcs.StorageService = (*GCSStorageService)(nil)

// NewGCSStorageService creates a new instance of GCSStorageService.
func NewGCSStorageService() *GCSStorageService {
	return &GCSStorageService{}
}

func (s *GCSStorageService) UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	return UploadFile(ctx, bucketName, objectName, filePath)
}

func (s *GCSStorageService) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte) error {
	return UploadBytes(ctx, bucketName, objectName, data)
}

func (s *GCSStorageService) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return Fetch(ctx, uri)
}

func (s *GCSStorageService) FilenameFromURI(uri string) string {
	return FilenameFromURI(uri)
}
