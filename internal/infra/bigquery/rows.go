// Package bigquery persists extraction-run bookkeeping and the canonical
// statement archive: one documents row per uploaded statement, one
// extraction_runs row per pipeline attempt, the raw model output, and the
// canonicalized holdings/transactions that came out of it.
package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

type DocumentRow struct {
	DocumentID string `bigquery:"document_id"` // REQUIRED
	GCSURI     string `bigquery:"gcs_uri"`     // REQUIRED

	DocumentType string `bigquery:"document_type"` // REQUIRED
	Issuer       string `bigquery:"issuer"`        // NULLABLE

	StatementDate        bigquery.NullDate `bigquery:"statement_date"`         // NULLABLE
	ReportingPeriodStart bigquery.NullDate `bigquery:"reporting_period_start"` // NULLABLE
	ReportingPeriodEnd   bigquery.NullDate `bigquery:"reporting_period_end"`   // NULLABLE

	UploadTS    time.Time              `bigquery:"upload_ts"`    // REQUIRED
	ProcessedTS bigquery.NullTimestamp `bigquery:"processed_ts"` // NULLABLE

	ExtractionStatus string `bigquery:"extraction_status"` // NULLABLE

	OriginalFilename string `bigquery:"original_filename"` // NULLABLE
	FileMimeType     string `bigquery:"file_mime_type"`    // NULLABLE

	// TextGCSURI points at the optional plaintext hint object for this
	// document; empty means no hint side channel exists.
	TextGCSURI string `bigquery:"text_gcs_uri"` // NULLABLE

	ChecksumSHA256 string `bigquery:"checksum_sha256"` // NULLABLE

	Metadata bigquery.NullJSON `bigquery:"metadata"` // NULLABLE
}

type ExtractionRunRow struct {
	ExtractionRunID string `bigquery:"extraction_run_id"` // REQUIRED
	DocumentID      string `bigquery:"document_id"`       // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	ParserType    string `bigquery:"parser_type"`    // NULLABLE, e.g. GEMINI_VISION
	ParserVersion string `bigquery:"parser_version"` // NULLABLE

	Status       string `bigquery:"status"`        // NULLABLE
	ErrorMessage string `bigquery:"error_message"` // NULLABLE

	Metadata bigquery.NullJSON `bigquery:"metadata"` // NULLABLE
}

type ModelOutputRow struct {
	OutputID        string `bigquery:"output_id"`         // REQUIRED
	ExtractionRunID string `bigquery:"extraction_run_id"` // REQUIRED
	DocumentID      string `bigquery:"document_id"`       // REQUIRED

	ModelName    string              `bigquery:"model_name"`    // REQUIRED
	ModelVersion bigquery.NullString `bigquery:"model_version"` // NULLABLE

	RawJSON bigquery.NullJSON `bigquery:"raw_json"` // REQUIRED (JSON)

	CreatedTS time.Time           `bigquery:"created_ts"` // REQUIRED
	Notes     bigquery.NullString `bigquery:"notes"`      // NULLABLE
}

// HoldingRow is one canonicalized position as archived per extraction run.
type HoldingRow struct {
	HoldingID       string `bigquery:"holding_id"`        // REQUIRED
	DocumentID      string `bigquery:"document_id"`       // NULLABLE
	ExtractionRunID string `bigquery:"extraction_run_id"` // NULLABLE
	AccountID       string `bigquery:"account_id"`        // NULLABLE

	SecurityID   bigquery.NullString `bigquery:"security_id"`   // NULLABLE
	SecurityName bigquery.NullString `bigquery:"security_name"` // NULLABLE
	SecurityType bigquery.NullString `bigquery:"security_type"` // NULLABLE

	Quantity           bigquery.NullFloat64 `bigquery:"quantity"`              // NULLABLE
	Price              bigquery.NullFloat64 `bigquery:"price"`                 // NULLABLE
	MarketValue        bigquery.NullFloat64 `bigquery:"market_value"`          // NULLABLE
	AverageCostPerUnit bigquery.NullFloat64 `bigquery:"average_cost_per_unit"` // NULLABLE
	Currency           bigquery.NullString  `bigquery:"currency"`              // NULLABLE

	HoldingDate bigquery.NullDate `bigquery:"holding_date"` // NULLABLE
	PriceDate   bigquery.NullDate `bigquery:"price_date"`   // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED

	Extra bigquery.NullJSON `bigquery:"extra"` // NULLABLE
}

// TransactionRow is one canonicalized movement as archived per extraction run.
type TransactionRow struct {
	TransactionID   string `bigquery:"transaction_id"`    // REQUIRED
	DocumentID      string `bigquery:"document_id"`       // NULLABLE
	ExtractionRunID string `bigquery:"extraction_run_id"` // NULLABLE
	AccountID       string `bigquery:"account_id"`        // NULLABLE

	TransactionDate bigquery.NullDate   `bigquery:"transaction_date"` // NULLABLE
	TransactionType bigquery.NullString `bigquery:"transaction_type"` // NULLABLE

	SecurityID   bigquery.NullString `bigquery:"security_id"`   // NULLABLE
	SecurityName bigquery.NullString `bigquery:"security_name"` // NULLABLE
	SecurityType bigquery.NullString `bigquery:"security_type"` // NULLABLE

	Quantity    bigquery.NullFloat64 `bigquery:"quantity"`     // NULLABLE
	Price       bigquery.NullFloat64 `bigquery:"price"`        // NULLABLE
	NetAmount   bigquery.NullFloat64 `bigquery:"net_amount"`   // NULLABLE
	GrossAmount bigquery.NullFloat64 `bigquery:"gross_amount"` // NULLABLE
	Currency    bigquery.NullString  `bigquery:"currency"`     // NULLABLE

	Counterparty   bigquery.NullString `bigquery:"counterparty"`    // NULLABLE
	TransactionRef bigquery.NullString `bigquery:"transaction_ref"` // NULLABLE
	SettlementDate bigquery.NullDate   `bigquery:"settlement_date"` // NULLABLE
	Description    bigquery.NullString `bigquery:"description"`     // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED

	Extra bigquery.NullJSON `bigquery:"extra"` // NULLABLE
}
