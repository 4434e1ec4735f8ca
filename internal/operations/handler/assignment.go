package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// AssignmentHandler handles kit assignment endpoints
type AssignmentHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(svc *service.OperationsService, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: svc,
		logger:  log,
	}
}

// List lists assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	status := r.URL.Query().Get("status")

	assignments, total, err := h.service.ListAssignments(r.Context(), page, perPage, status)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, assignments, httputil.PageMeta(page, perPage, total))
}

// Get gets an assignment by ID
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	assignment, err := h.service.GetAssignment(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, assignment)
}

// CreateAssignmentRequest is the payload for creating an assignment
type CreateAssignmentRequest struct {
	KitID           string  `json:"kit_id" validate:"required"`
	ClientID        string  `json:"client_id" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	ProductionMonth *string `json:"production_month,omitempty"`
}

// Create creates a new assignment
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	assignment := domain.Assignment{
		KitID:           req.KitID,
		ClientID:        req.ClientID,
		Quantity:        req.Quantity,
		ProductionMonth: req.ProductionMonth,
	}
	if err := h.service.CreateAssignment(r.Context(), &assignment); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, assignment)
}

// Update updates an assignment's mutable fields
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var assignment domain.Assignment
	if err := httputil.DecodeJSON(r, &assignment); err != nil {
		httputil.Error(w, err)
		return
	}

	assignment.ID = id
	if err := h.service.UpdateAssignment(r.Context(), &assignment); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, assignment)
}

// Delete soft deletes an assignment
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteAssignment(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// TransitionRequest is the payload for a lifecycle transition
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// Transition moves an assignment to the next lifecycle status
func (h *AssignmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
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

	assignment, err := h.service.TransitionAssignment(r.Context(), id, domain.AssignmentStatus(req.Status))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, assignment)
}
