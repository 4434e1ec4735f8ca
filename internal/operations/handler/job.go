package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// JobHandler handles processing job endpoints
type JobHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(svc *service.OperationsService, log *logger.Logger) *JobHandler {
	return &JobHandler{
		service: svc,
		logger:  log,
	}
}

// List lists processing jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	status := r.URL.Query().Get("status")

	jobs, total, err := h.service.ListProcessingJobs(r.Context(), page, perPage, status)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, jobs, httputil.PageMeta(page, perPage, total))
}

// Get gets a job by ID
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.service.GetProcessingJob(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, job)
}

// Create creates a new processing job
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var job domain.ProcessingJob
	if err := httputil.DecodeJSON(r, &job); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateProcessingJob(r.Context(), &job); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, job)
}

// Delete soft deletes a job
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProcessingJob(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Transition moves a job through its lifecycle
func (h *JobHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req TransitionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	job, err := h.service.TransitionJob(r.Context(), id, domain.JobStatus(req.Status))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, job)
}
