// Package handlers implements the HTTP API: submitting statements for
// asynchronous processing, inspecting job status, and reading persisted
// per-statement and combined results.
package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-insights/internal/aggregate"
	"github.com/dvloznov/statement-insights/internal/api/middleware"
	"github.com/dvloznov/statement-insights/internal/jobs"
	"github.com/dvloznov/statement-insights/internal/store"
)

// StatementsHandler handles statement submission endpoints.
type StatementsHandler struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(publisher jobs.Publisher, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		publisher: publisher,
		log:       log,
	}
}

// SubmitStatement handles POST /api/statements
func (h *StatementsHandler) SubmitStatement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceURI string `json:"source_uri"`
		Filename  string `json:"filename"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SourceURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "source_uri is required")
		return
	}
	if req.Filename == "" {
		req.Filename = store.FilenameFromURI(req.SourceURI)
	}
	req.Filename = filepath.Base(strings.TrimSpace(req.Filename))

	job := &jobs.ProcessStatementJob{
		SourceURI: req.SourceURI,
		Filename:  req.Filename,
	}

	if err := h.publisher.PublishProcessStatement(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue processing job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue processing job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("filename", req.Filename).Msg("Processing job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":   job.JobID,
		"filename": req.Filename,
		"status":   string(job.Status),
	})
}

// ResultsHandler serves persisted parse outputs.
type ResultsHandler struct {
	store *store.FS
	log   zerolog.Logger
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(fs *store.FS, log zerolog.Logger) *ResultsHandler {
	return &ResultsHandler{
		store: fs,
		log:   log,
	}
}

// ListResults handles GET /api/results
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ListResults()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list results")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": names,
		"count":   len(names),
	})
}

// GetResult handles GET /api/results/{filename}
func (h *ResultsHandler) GetResult(w http.ResponseWriter, r *http.Request, filename string) {
	filename = filepath.Base(filename)
	result, err := h.store.ReadResult(filename)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Result not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// GetCombined handles GET /api/combined
func (h *ResultsHandler) GetCombined(w http.ResponseWriter, r *http.Request) {
	combined, err := h.store.ReadCombined()
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Combined report not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, combined)
}

// GetReport handles GET /api/report
func (h *ResultsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	combined, err := h.store.ReadCombined()
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Combined report not found")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(aggregate.RenderReport(combined)))
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
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
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

	jobsList, err := h.store.ListJobs(r.Context(), filter)
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
