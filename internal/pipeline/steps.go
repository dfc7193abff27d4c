package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/domain"
	infra "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/google/uuid"
)

// PipelineStep represents a single step in the ingestion pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Deps *Deps

	GCSURI          string
	DocumentID      string
	ExtractionRunID string
	Deduplicated    bool

	PDFBytes []byte
	Checksum string
	Hint     string

	RawModelOutput map[string]interface{}
	Statement      *domain.FinancialSecurityStatement
}

// failRun records the failure on the extraction run, if one was started.
func (s *PipelineState) failRun(ctx context.Context, err error) {
	if s.ExtractionRunID != "" {
		s.Deps.Repo.MarkExtractionRunFailed(ctx, s.ExtractionRunID, err)
	}
}

// FetchPDFStep fetches the PDF bytes from storage and computes their
// checksum.
type FetchPDFStep struct{}

func (st *FetchPDFStep) Execute(ctx context.Context, state *PipelineState) error {
	pdfBytes, err := state.Deps.Storage.Fetch(ctx, state.GCSURI)
	if err != nil {
		return fmt.Errorf("fetching document: %w", err)
	}
	state.PDFBytes = pdfBytes
	state.Checksum = checksumSHA256(pdfBytes)
	return nil
}

// ResolveDocumentStep finds an existing document with the same checksum or
// creates a new documents row. Re-uploads of an identical file reuse the
// original document; their new run supersedes the earlier ones.
type ResolveDocumentStep struct{}

func (st *ResolveDocumentStep) Execute(ctx context.Context, state *PipelineState) error {
	existing, err := state.Deps.Repo.FindDocumentByChecksum(ctx, state.Checksum)
	if err != nil {
		return fmt.Errorf("checking for duplicate document: %w", err)
	}
	if existing != nil {
		state.DocumentID = existing.DocumentID
		state.Deduplicated = true
		return nil
	}

	row := &infra.DocumentRow{
		DocumentID:       uuid.NewString(),
		GCSURI:           state.GCSURI,
		DocumentType:     DefaultDocumentType,
		UploadTS:         time.Now(),
		ExtractionStatus: "PENDING",
		OriginalFilename: state.Deps.Storage.FilenameFromURI(state.GCSURI),
		FileMimeType:     "application/pdf",
		ChecksumSHA256:   state.Checksum,
		Metadata:         bigquerylib.NullJSON{Valid: false},
	}
	if err := state.Deps.Repo.InsertDocument(ctx, row); err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	state.DocumentID = row.DocumentID
	return nil
}

// StartExtractionRunStep starts an extraction run (status=RUNNING).
type StartExtractionRunStep struct{}

func (st *StartExtractionRunStep) Execute(ctx context.Context, state *PipelineState) error {
	model := DefaultModelName
	if g, ok := state.Deps.Extractor.(*GeminiStatementExtractor); ok && g.Model != "" {
		model = g.Model
	}
	runID, err := state.Deps.Repo.StartExtractionRun(ctx, state.DocumentID, model, ParserVersion)
	if err != nil {
		return fmt.Errorf("starting extraction run: %w", err)
	}
	state.ExtractionRunID = runID
	return nil
}

// FetchHintStep loads the optional plaintext hint for the document. A
// missing hint is not a failure.
type FetchHintStep struct{}

func (st *FetchHintStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Deps.Hints == nil {
		return nil
	}
	if hint, ok := state.Deps.Hints.Hint(ctx, state.GCSURI); ok {
		state.Hint = hint
	}
	return nil
}

// ExtractStatementStep calls the statement extractor (Gemini) with the PDF.
type ExtractStatementStep struct{}

func (st *ExtractStatementStep) Execute(ctx context.Context, state *PipelineState) error {
	raw, err := state.Deps.Extractor.ExtractStatement(ctx, state.PDFBytes, state.Hint)
	if err != nil {
		state.failRun(ctx, err)
		return err
	}
	state.RawModelOutput = raw
	return nil
}

// StoreModelOutputStep stores raw model output in model_outputs.
type StoreModelOutputStep struct{}

func (st *StoreModelOutputStep) Execute(ctx context.Context, state *PipelineState) error {
	model := DefaultModelName
	if g, ok := state.Deps.Extractor.(*GeminiStatementExtractor); ok && g.Model != "" {
		model = g.Model
	}
	rawJSON, err := json.Marshal(state.RawModelOutput)
	if err != nil {
		state.failRun(ctx, err)
		return err
	}
	row := &infra.ModelOutputRow{
		ExtractionRunID: state.ExtractionRunID,
		DocumentID:      state.DocumentID,
		ModelName:       model,
		RawJSON:         bigquerylib.NullJSON{JSONVal: string(rawJSON), Valid: true},
	}
	if _, err := state.Deps.Repo.SaveModelOutput(ctx, row); err != nil {
		state.failRun(ctx, err)
		return err
	}
	return nil
}

// DecodeStatementStep validates the raw output against the statement
// schema and builds the typed value graph.
type DecodeStatementStep struct{}

func (st *DecodeStatementStep) Execute(ctx context.Context, state *PipelineState) error {
	stmt, err := DecodeStatement(state.RawModelOutput)
	if err != nil {
		state.failRun(ctx, err)
		return err
	}
	state.Statement = stmt
	return nil
}

// CanonicalizeStep normalizes dates and amounts, drops placeholder
// holdings and resolves income cross-references in place.
type CanonicalizeStep struct{}

func (st *CanonicalizeStep) Execute(ctx context.Context, state *PipelineState) error {
	Canonicalize(state.Statement)
	return nil
}

// InsertRecordsStep archives the canonicalized holdings and transactions.
type InsertRecordsStep struct{}

func (st *InsertRecordsStep) Execute(ctx context.Context, state *PipelineState) error {
	holdings := infra.HoldingRows(state.Statement, state.DocumentID, state.ExtractionRunID)
	if err := state.Deps.Repo.InsertHoldings(ctx, holdings); err != nil {
		state.failRun(ctx, err)
		return err
	}
	transactions := infra.TransactionRows(state.Statement, state.DocumentID, state.ExtractionRunID)
	if err := state.Deps.Repo.InsertTransactions(ctx, transactions); err != nil {
		state.failRun(ctx, err)
		return err
	}
	return nil
}

// MarkSuccessStep marks the extraction run as SUCCESS, supersedes earlier
// successful runs for the same document and flips the document status.
type MarkSuccessStep struct{}

func (st *MarkSuccessStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := state.Deps.Repo.MarkExtractionRunSucceeded(ctx, state.ExtractionRunID); err != nil {
		return err
	}
	if err := state.Deps.Repo.MarkExtractionRunsSuperseded(ctx, state.DocumentID, state.ExtractionRunID); err != nil {
		return err
	}
	return state.Deps.Repo.MarkDocumentProcessed(ctx, state.DocumentID, "PARSED")
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewStatementIngestionPipeline creates the standard pipeline for
// ingesting statements.
func NewStatementIngestionPipeline() *Pipeline {
	return NewPipeline(
		&FetchPDFStep{},
		&ResolveDocumentStep{},
		&StartExtractionRunStep{},
		&FetchHintStep{},
		&ExtractStatementStep{},
		&StoreModelOutputStep{},
		&DecodeStatementStep{},
		&CanonicalizeStep{},
		&InsertRecordsStep{},
		&MarkSuccessStep{},
	)
}
