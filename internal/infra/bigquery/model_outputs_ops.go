package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
)

// SaveModelOutput stores the raw model response for an extraction run.
func SaveModelOutput(ctx context.Context, row *ModelOutputRow) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("SaveModelOutput: bigquery client: %w", err)
	}
	defer client.Close()

	return SaveModelOutputWithClient(ctx, client, row)
}

// SaveModelOutputWithClient stores the raw model response for an extraction run
// using the provided BigQuery client. The raw JSON is kept verbatim so a failed
// decode can be replayed without calling the model again. The row's OutputID
// and CreatedTS are filled in when empty.
func SaveModelOutputWithClient(ctx context.Context, client *bigquery.Client, row *ModelOutputRow) (string, error) {
	if row.OutputID == "" {
		row.OutputID = uuid.NewString()
	}
	if row.CreatedTS.IsZero() {
		row.CreatedTS = time.Now()
	}

	inserter := client.Dataset(datasetID).Table(modelOutputsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return "", fmt.Errorf("SaveModelOutput: inserting row: %w", err)
	}

	return row.OutputID, nil
}
