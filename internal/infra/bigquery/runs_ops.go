package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/google/uuid"
)

// StartExtractionRun inserts a new row into extraction_runs with status=RUNNING
// and returns the generated extraction_run_id.
func StartExtractionRun(ctx context.Context, documentID, modelName, parserVersion string) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("StartExtractionRun: bigquery client: %w", err)
	}
	defer client.Close()

	return StartExtractionRunWithClient(ctx, client, documentID, modelName, parserVersion)
}

// StartExtractionRunWithClient inserts a new row into extraction_runs with status=RUNNING
// and returns the generated extraction_run_id using the provided BigQuery client.
func StartExtractionRunWithClient(ctx context.Context, client *bigquery.Client, documentID, modelName, parserVersion string) (string, error) {
	extractionRunID := uuid.NewString()
	started := time.Now()

	q := client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			extraction_run_id,
			document_id,
			started_ts,
			model_name,
			parser_version,
			status
		)
		VALUES (
			@extraction_run_id,
			@document_id,
			@started_ts,
			@model_name,
			@parser_version,
			@status
		)
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "extraction_run_id", Value: extractionRunID},
		{Name: "document_id", Value: documentID},
		{Name: "started_ts", Value: started},
		{Name: "model_name", Value: modelName},
		{Name: "parser_version", Value: parserVersion},
		{Name: "status", Value: "RUNNING"},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("StartExtractionRun: running insert query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("StartExtractionRun: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return "", fmt.Errorf("StartExtractionRun: job error: %w", err)
	}

	return extractionRunID, nil
}

// MarkExtractionRunFailed sets status=FAILED, finished_ts and error_message.
func MarkExtractionRunFailed(ctx context.Context, extractionRunID string, runErr error) {
	log := logger.FromContext(ctx)

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		log.Error().
			Err(err).
			Str("extraction_run_id", extractionRunID).
			Msg("MarkExtractionRunFailed: bigquery client error")
		return
	}
	defer client.Close()

	MarkExtractionRunFailedWithClient(ctx, client, extractionRunID, runErr)
}

// MarkExtractionRunFailedWithClient sets status=FAILED, finished_ts and error_message
// using the provided BigQuery client.
func MarkExtractionRunFailedWithClient(ctx context.Context, client *bigquery.Client, extractionRunID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE extraction_run_id = @extraction_run_id
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "extraction_run_id", Value: extractionRunID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("extraction_run_id", extractionRunID).
			Msg("MarkExtractionRunFailed: running update query")
		return
	}

	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("extraction_run_id", extractionRunID).
			Msg("MarkExtractionRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().
			Err(err).
			Str("extraction_run_id", extractionRunID).
			Msg("MarkExtractionRunFailed: job completed with error")
	}
}

// MarkExtractionRunSucceeded sets status=SUCCESS and finished_ts, clears error_message.
func MarkExtractionRunSucceeded(ctx context.Context, extractionRunID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: bigquery client: %w", err)
	}
	defer client.Close()

	return MarkExtractionRunSucceededWithClient(ctx, client, extractionRunID)
}

// MarkExtractionRunSucceededWithClient sets status=SUCCESS and finished_ts, clears error_message
// using the provided BigQuery client.
func MarkExtractionRunSucceededWithClient(ctx context.Context, client *bigquery.Client, extractionRunID string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = ""
		WHERE extraction_run_id = @extraction_run_id
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "extraction_run_id", Value: extractionRunID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: running update query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: job error: %w", err)
	}

	return nil
}

// MarkExtractionRunsSuperseded flips earlier SUCCESS runs for the same document
// to SUPERSEDED so only the latest run's records are treated as canonical.
func MarkExtractionRunsSupersededWithClient(ctx context.Context, client *bigquery.Client, documentID, keepRunID string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @superseded
		WHERE document_id = @document_id
		  AND extraction_run_id != @keep_run_id
		  AND status = @success
	`, datasetID, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "superseded", Value: "SUPERSEDED"},
		{Name: "document_id", Value: documentID},
		{Name: "keep_run_id", Value: keepRunID},
		{Name: "success", Value: "SUCCESS"},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: running update query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkExtractionRunsSuperseded: job error: %w", err)
	}

	return nil
}
