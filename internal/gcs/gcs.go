package gcs

import (
	"context"
)

// StorageService provides an interface for cloud storage operations on
// statement documents. This interface enables mocking and testing of
// storage functionality.
type StorageService interface {
	// UploadFile uploads a local file to a storage bucket under the given
	// object name.
	UploadFile(ctx context.Context, bucketName, objectName, filePath string) error

	// UploadBytes writes raw document bytes to a storage bucket under the
	// given object name.
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte) error

	// Fetch downloads file bytes from the given gs:// URI.
	Fetch(ctx context.Context, uri string) ([]byte, error)

	// FilenameFromURI extracts the filename from a gs:// URI.
	FilenameFromURI(uri string) string
}
