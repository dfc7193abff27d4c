package pipeline

import (
	"context"

	"github.com/dvloznov/statement-normalizer/internal/gcs"
)

// StorageService is an interface for document storage operations.
type StorageService = gcs.StorageService

// StatementExtractor provides an interface for AI-powered statement
// extraction. It enables mocking the external document-understanding call.
type StatementExtractor interface {
	// ExtractStatement sends PDF bytes to the model and returns the raw
	// parsed JSON output. hint is an optional plaintext side channel;
	// empty means no hint was available.
	ExtractStatement(ctx context.Context, pdfBytes []byte, hint string) (map[string]interface{}, error)
}

// HintProvider supplies the best-effort plaintext hint for a document.
// Implementations must report absence as ("", false), never as an error;
// a missing hint is an expected state, not a failure.
type HintProvider interface {
	Hint(ctx context.Context, documentURI string) (hint string, ok bool)
}
