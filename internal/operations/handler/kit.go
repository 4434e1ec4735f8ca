package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/packing"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/errors"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// KitHandler handles kit endpoints
type KitHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewKitHandler creates a new kit handler
func NewKitHandler(svc *service.OperationsService, log *logger.Logger) *KitHandler {
	return &KitHandler{
		service: svc,
		logger:  log,
	}
}

// validateStructure rejects structured kits whose packing requirements do
// not parse. Legacy kits skip the check.
func validateStructure(kit *domain.Kit) error {
	if !kit.IsStructured || kit.PackingRequirements == nil {
		return nil
	}
	if _, err := packing.Parse(*kit.PackingRequirements); err != nil {
		return errors.BadRequest("packing requirements do not parse: " + err.Error())
	}
	return nil
}

// List lists kits
func (h *KitHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	kits, total, err := h.service.ListKits(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, kits, httputil.PageMeta(page, perPage, total))
}

// Get gets a kit by ID
func (h *KitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	kit, err := h.service.GetKit(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, kit)
}

// Create creates a new kit
func (h *KitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var kit domain.Kit
	if err := httputil.DecodeJSON(r, &kit); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := validateStructure(&kit); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateKit(r.Context(), &kit); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, kit)
}

// Update updates a kit
func (h *KitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var kit domain.Kit
	if err := httputil.DecodeJSON(r, &kit); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := validateStructure(&kit); err != nil {
		httputil.Error(w, err)
		return
	}

	kit.ID = id
	if err := h.service.UpdateKit(r.Context(), &kit); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, kit)
}

// Delete soft deletes a kit
func (h *KitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteKit(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
