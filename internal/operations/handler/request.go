package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// RequestHandler handles material request endpoints
type RequestHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(svc *service.OperationsService, log *logger.Logger) *RequestHandler {
	return &RequestHandler{
		service: svc,
		logger:  log,
	}
}

// List lists material requests
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	status := r.URL.Query().Get("status")

	requests, total, err := h.service.ListMaterialRequests(r.Context(), page, perPage, status)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, requests, httputil.PageMeta(page, perPage, total))
}

// Get gets a request by ID
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	request, err := h.service.GetMaterialRequest(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, request)
}

// Create creates a new material request
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.MaterialRequest
	if err := httputil.DecodeJSON(r, &request); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateMaterialRequest(r.Context(), &request); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, request)
}

// Delete soft deletes a request
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteMaterialRequest(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Approve approves a pending request
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	request, err := h.service.ApproveMaterialRequest(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, request)
}

// RejectRequest is the payload for rejecting a request
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject rejects a pending request
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RejectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	request, err := h.service.RejectMaterialRequest(r.Context(), id, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, request)
}

// Fulfill marks an approved request as delivered and credits stock
func (h *RequestHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	request, err := h.service.FulfillMaterialRequest(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, request)
}

// PurchasedRequest is the payload for manual purchasing overrides
type PurchasedRequest struct {
	PurchasedQuantities domain.QuantityMap `json:"purchased_quantities" validate:"required"`
}

// SetPurchased records the manual purchasing overrides on a request
func (h *RequestHandler) SetPurchased(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PurchasedRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	request, err := h.service.SetPurchasedQuantities(r.Context(), id, req.PurchasedQuantities)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, request)
}
