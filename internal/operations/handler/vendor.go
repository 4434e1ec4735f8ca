package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(svc *service.OperationsService, log *logger.Logger) *VendorHandler {
	return &VendorHandler{
		service: svc,
		logger:  log,
	}
}

// List lists vendors
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	vendors, total, err := h.service.ListVendors(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, vendors, httputil.PageMeta(page, perPage, total))
}

// Get gets a vendor by ID
func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	vendor, err := h.service.GetVendor(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, vendor)
}

// Create creates a new vendor
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var vendor domain.Vendor
	if err := httputil.DecodeJSON(r, &vendor); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateVendor(r.Context(), &vendor); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, vendor)
}

// Update updates a vendor
func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var vendor domain.Vendor
	if err := httputil.DecodeJSON(r, &vendor); err != nil {
		httputil.Error(w, err)
		return
	}

	vendor.ID = id
	if err := h.service.UpdateVendor(r.Context(), &vendor); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, vendor)
}

// Delete soft deletes a vendor
func (h *VendorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteVendor(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
