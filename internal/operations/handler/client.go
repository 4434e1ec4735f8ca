package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	service *service.OperationsService
	logger  *logger.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(svc *service.OperationsService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{
		service: svc,
		logger:  log,
	}
}

// List lists clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	clients, total, err := h.service.ListClients(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, clients, httputil.PageMeta(page, perPage, total))
}

// Get gets a client by ID
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, client)
}

// Create creates a new client
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var client domain.Client
	if err := httputil.DecodeJSON(r, &client); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateClient(r.Context(), &client); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, client)
}

// Update updates a client
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var client domain.Client
	if err := httputil.DecodeJSON(r, &client); err != nil {
		httputil.Error(w, err)
		return
	}

	client.ID = id
	if err := h.service.UpdateClient(r.Context(), &client); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, client)
}

// Delete soft deletes a client
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
