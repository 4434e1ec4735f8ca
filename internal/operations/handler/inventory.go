package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// InventoryHandler handles inventory item endpoints
type InventoryHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(svc *service.OperationsService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: svc,
		logger:  log,
	}
}

// List lists inventory items
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	itemType := r.URL.Query().Get("type")

	items, total, err := h.service.ListInventoryItems(r.Context(), page, perPage, itemType)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, items, httputil.PageMeta(page, perPage, total))
}

// Get gets an item by ID
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.GetInventoryItem(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Create creates a new item
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := httputil.DecodeJSON(r, &item); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateInventoryItem(r.Context(), &item); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, item)
}

// Update updates an item's definition
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var item domain.InventoryItem
	if err := httputil.DecodeJSON(r, &item); err != nil {
		httputil.Error(w, err)
		return
	}

	item.ID = id
	if err := h.service.UpdateInventoryItem(r.Context(), &item); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Delete soft deletes an item
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteInventoryItem(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// AdjustStockRequest is the payload for a manual stock adjustment
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" validate:"required"`
	Reason string          `json:"reason"`
}

// AdjustStock applies a signed stock delta to an item
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdjustStockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.service.AdjustStock(r.Context(), id, req.Delta, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// LowStock lists items below their minimum stock level
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ScanLowStock(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}
