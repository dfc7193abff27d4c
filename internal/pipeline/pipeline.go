// Package pipeline turns an uploaded statement PDF into a canonicalized
// FinancialSecurityStatement: extraction via Gemini, schema validation,
// date and numeric normalization, cross-reference resolution, and
// archival of the resulting records.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dvloznov/statement-normalizer/internal/domain"
	"github.com/dvloznov/statement-normalizer/internal/gcsuploader"
	infra "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/logger"
)

// Deps bundles the external services the ingestion pipeline talks to.
// Every field is an interface so tests can run the pipeline end to end
// without network access.
type Deps struct {
	Repo      infra.StatementRepository
	Storage   StorageService
	Extractor StatementExtractor
	Hints     HintProvider
}

// Settings carries the tunable extraction knobs loaded from
// configuration. Zero fields fall back to the compiled defaults.
type Settings struct {
	Model        string
	MaxPDFBytes  int
	MaxHintChars int
}

// NewExtractor builds the production extractor from the settings. A nil
// receiver yields an extractor on compiled defaults.
func (s *Settings) NewExtractor() *GeminiStatementExtractor {
	if s == nil {
		return &GeminiStatementExtractor{}
	}
	return &GeminiStatementExtractor{
		Model:        s.Model,
		MaxPDFBytes:  s.MaxPDFBytes,
		MaxHintChars: s.MaxHintChars,
	}
}

// Result is what a completed ingestion hands back to the caller.
type Result struct {
	DocumentID      string
	ExtractionRunID string
	Statement       *domain.FinancialSecurityStatement

	// Deduplicated reports that an identical document already existed;
	// the new run supersedes the earlier ones.
	Deduplicated bool
}

// IngestStatementFromGCS processes a single statement PDF stored in GCS.
// gcsURI should look like: "gs://bucket/path/to/statement.pdf".
// It wires the production dependencies, building the extractor from the
// given settings, and delegates to IngestStatementFromGCSWithDeps.
func IngestStatementFromGCS(ctx context.Context, gcsURI string, settings *Settings) (*Result, error) {
	repo, err := infra.NewBigQueryStatementRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("IngestStatementFromGCS: %w", err)
	}
	defer repo.Close()

	storage := gcsuploader.NewGCSStorageService()
	deps := &Deps{
		Repo:      repo,
		Storage:   storage,
		Extractor: settings.NewExtractor(),
		Hints:     &GCSHintProvider{Storage: storage},
	}
	return IngestStatementFromGCSWithDeps(ctx, gcsURI, deps)
}

// IngestStatementFromGCSWithDeps runs the standard ingestion pipeline with
// the provided dependencies.
func IngestStatementFromGCSWithDeps(ctx context.Context, gcsURI string, deps *Deps) (*Result, error) {
	state := &PipelineState{GCSURI: gcsURI, Deps: deps}
	if err := NewStatementIngestionPipeline().Execute(ctx, state); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("document_id", state.DocumentID).
		Str("extraction_run_id", state.ExtractionRunID).
		Bool("deduplicated", state.Deduplicated).
		Msg("statement ingestion completed")

	return &Result{
		DocumentID:      state.DocumentID,
		ExtractionRunID: state.ExtractionRunID,
		Statement:       state.Statement,
		Deduplicated:    state.Deduplicated,
	}, nil
}

// checksumSHA256 returns the lowercase hex SHA-256 of the document bytes.
// Used to detect re-uploads of the same file under a different name.
func checksumSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
