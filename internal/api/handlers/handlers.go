// Package handlers implements the HTTP endpoints for uploading statement
// PDFs, enqueuing extraction jobs, remapping record batches and exporting
// the results.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/statement-normalizer/internal/api/middleware"
	"github.com/dvloznov/statement-normalizer/internal/export"
	infra "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/jobs"
	"github.com/dvloznov/statement-normalizer/internal/remap"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DocumentsHandler handles document-related endpoints.
type DocumentsHandler struct {
	repo      infra.StatementRepository
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(repo infra.StatementRepository, publisher jobs.Publisher, bucket string, log zerolog.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		repo:      repo,
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// ListDocuments handles GET /api/documents
func (h *DocumentsHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documents, err := h.repo.ListDocuments(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list documents")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// CreateUploadURL handles POST /api/documents/upload-url
func (h *DocumentsHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Filename is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(req.Filename), ".pdf") {
		middleware.WriteError(w, http.StatusBadRequest, "Only PDF statements are supported")
		return
	}

	// Generate unique object name
	objectName := fmt.Sprintf("statements/%s/%s", time.Now().Format("2006/01/02"), uuid.New().String()+"-"+req.Filename)
	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)

	// For local development with user credentials, return direct upload URL
	// In production with service accounts, this would use signed URLs
	uploadURL := fmt.Sprintf("/api/documents/upload?object_name=%s&filename=%s", url.QueryEscape(objectName), url.QueryEscape(req.Filename))

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"upload_url":  uploadURL,
		"gcs_uri":     gcsURI,
		"object_name": objectName,
	})
}

// UploadDocument handles POST /api/documents/upload
// Direct upload endpoint for local development with user credentials.
// The documents row itself is created by the extraction pipeline, which
// deduplicates re-uploads by checksum.
func (h *DocumentsHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	objectName := r.URL.Query().Get("object_name")
	if objectName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "object_name is required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)

	client, err := storage.NewClient(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create storage client")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	defer client.Close()

	wc := client.Bucket(h.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType

	written, err := io.Copy(wc, r.Body)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to write to GCS")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	if err := wc.Close(); err != nil {
		h.log.Error().Err(err).Msg("Failed to close GCS writer")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	h.log.Info().
		Str("gcs_uri", gcsURI).
		Int64("bytes", written).
		Msg("Statement uploaded")

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"gcs_uri": gcsURI,
		"status":  "uploaded",
	})
}

// EnqueueExtraction handles POST /api/documents/extract
func (h *DocumentsHandler) EnqueueExtraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GCSURI string `json:"gcs_uri"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri is required")
		return
	}

	ctx := r.Context()

	job := &jobs.ExtractStatementJob{
		GCSURI: req.GCSURI,
	}

	if err := h.publisher.PublishExtractStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue extraction job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue extraction job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("gcs_uri", req.GCSURI).Msg("Extraction job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// GetRecords handles GET /api/documents/{id}/records
// It returns the archived holdings and transactions of the latest
// successful extraction run.
func (h *DocumentsHandler) GetRecords(w http.ResponseWriter, r *http.Request, documentID string) {
	ctx := r.Context()

	holdings, err := h.repo.ListHoldingsForDocument(ctx, documentID)
	if err != nil {
		h.log.Error().Err(err).Str("document_id", documentID).Msg("Failed to list holdings")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list holdings")
		return
	}

	transactions, err := h.repo.ListTransactionsForDocument(ctx, documentID)
	if err != nil {
		h.log.Error().Err(err).Str("document_id", documentID).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	if holdings == nil {
		holdings = []*infra.HoldingRow{}
	}
	if transactions == nil {
		transactions = []*infra.TransactionRow{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":  documentID,
		"holdings":     holdings,
		"transactions": transactions,
	})
}

// RemapHandler handles remap endpoints.
type RemapHandler struct {
	remapper *remap.Remapper
	log      zerolog.Logger
}

// NewRemapHandler creates a new remap handler.
func NewRemapHandler(remapper *remap.Remapper, log zerolog.Logger) *RemapHandler {
	return &RemapHandler{
		remapper: remapper,
		log:      log,
	}
}

// Remap handles POST /api/remap
// Remap failures never surface as HTTP errors; the fallback note comes
// back inline with the unchanged items.
func (h *RemapHandler) Remap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Issuer        string         `json:"issuer"`
		EntityType    string         `json:"entityType"`
		Items         []remap.Record `json:"items"`
		MappingPrompt string         `json:"mappingPrompt"`
		Scope         string         `json:"scope"`
		RowID         string         `json:"row_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.EntityType != "holding" && req.EntityType != "transaction" {
		middleware.WriteError(w, http.StatusBadRequest, "entityType must be 'holding' or 'transaction'")
		return
	}
	if req.Scope == "" {
		req.Scope = remap.ScopeSection
	}

	resp := h.remapper.Remap(r.Context(), &remap.Request{
		Issuer:        req.Issuer,
		EntityType:    req.EntityType,
		Items:         req.Items,
		MappingPrompt: req.MappingPrompt,
		Scope:         req.Scope,
		RowID:         req.RowID,
	})

	if resp.Fallback {
		h.log.Warn().Str("entity_type", req.EntityType).Str("note", resp.Note).Msg("Remap fell back to passthrough")
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"data":      resp.Data,
		"fallback":  resp.Fallback,
		"note":      resp.Note,
		"model_raw": resp.ModelRaw,
	})
}

// ExportHandler handles export endpoints.
type ExportHandler struct {
	log zerolog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(log zerolog.Logger) *ExportHandler {
	return &ExportHandler{log: log}
}

// Export handles POST /api/export
// format=json returns pretty-printed JSON; format=csv returns delimited
// text with RFC-4180 quoting. Both strip the internal row identifier.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntityType string         `json:"entityType"`
		Items      []remap.Record `json:"items"`
		Format     string         `json:"format"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.EntityType != "holding" && req.EntityType != "transaction" {
		middleware.WriteError(w, http.StatusBadRequest, "entityType must be 'holding' or 'transaction'")
		return
	}

	switch req.Format {
	case "csv":
		body := export.CSV(req.EntityType, req.Items)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, req.EntityType))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	case "", "json":
		body, err := export.JSON(req.Items)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to encode export")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to encode export")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, req.EntityType))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		middleware.WriteError(w, http.StatusBadRequest, "format must be 'json' or 'csv'")
	}
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		DocumentID: query.Get("document_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
