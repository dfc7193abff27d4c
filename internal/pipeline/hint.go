package pipeline

import (
	"context"
	"path"
	"strings"
)

// GCSHintProvider looks for a plaintext sidecar object next to the
// document: "gs://bucket/statements/jan.pdf" → "gs://bucket/statements/jan.txt".
// Uploaders that ran text extraction drop the sidecar alongside the PDF.
type GCSHintProvider struct {
	Storage StorageService
}

var _ HintProvider = (*GCSHintProvider)(nil)

// Hint fetches the sidecar text for documentURI. Any fetch failure is
// treated as hint-absent.
func (p *GCSHintProvider) Hint(ctx context.Context, documentURI string) (string, bool) {
	sidecar := sidecarURI(documentURI)
	if sidecar == documentURI {
		return "", false
	}
	data, err := p.Storage.Fetch(ctx, sidecar)
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", false
	}
	return text, true
}

func sidecarURI(uri string) string {
	ext := path.Ext(uri)
	if ext == "" || ext == ".txt" {
		return uri
	}
	return strings.TrimSuffix(uri, ext) + ".txt"
}
