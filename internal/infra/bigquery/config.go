package bigquery

import "os"

var (
	projectID = envOr("GOOGLE_CLOUD_PROJECT", "")
	datasetID = envOr("BQ_DATASET", "statements")
)

const (
	documentsTable      = "documents"
	extractionRunsTable = "extraction_runs"
	modelOutputsTable   = "model_outputs"
	holdingsTable       = "holdings"
	transactionsTable   = "transactions"
)

// Configure overrides the project and dataset used by package-level
// operations. Empty arguments leave the current value in place.
func Configure(project, dataset string) {
	if project != "" {
		projectID = project
	}
	if dataset != "" {
		datasetID = dataset
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
