package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/config"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// ReportHandler handles the requirement report endpoints
type ReportHandler struct {
	service *service.OperationsService
	reports config.ReportsConfig
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.OperationsService, reports config.ReportsConfig, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		reports: reports,
		logger:  log,
	}
}

// MaterialSummary returns the merged shortage rows across all demand
func (h *ReportHandler) MaterialSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.MaterialSummaryReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, rows)
}

// Processing returns shortages of materials that need processing
func (h *ReportHandler) Processing(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ProcessingReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, rows)
}

// Procurement returns the purchasing view with vendor suggestions
func (h *ReportHandler) Procurement(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ProcurementReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, rows)
}

// KitWise returns shortages grouped by kit
func (h *ReportHandler) KitWise(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.KitWiseReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, groups)
}

// MonthWise returns shortages grouped by production month
func (h *ReportHandler) MonthWise(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.MonthWiseReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, groups)
}

// ClientWise returns shortages grouped by client
func (h *ReportHandler) ClientWise(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ClientWiseReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, groups)
}

// AssignmentWise returns shortages per individual assignment
func (h *ReportHandler) AssignmentWise(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.AssignmentWiseReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, groups)
}

// ExportMaterialSummary streams the material summary as an xlsx download
func (h *ReportHandler) ExportMaterialSummary(w http.ResponseWriter, r *http.Request) {
	sheetName := h.reports.ExportSheetName

	data, err := h.service.ExportMaterialSummary(r.Context(), sheetName)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	filename := strings.ReplaceAll(strings.ToLower(sheetName), " ", "_") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
