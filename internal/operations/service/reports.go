package service

import (
	"context"

	"github.com/kitworks/kitops-backend/internal/operations/export"
	"github.com/kitworks/kitops-backend/internal/operations/requirements"
)

// loadSnapshot reads every collection the requirement reports need in one
// pass. The views all compute off this consistent picture.
func (s *OperationsService) loadSnapshot(ctx context.Context) (*requirements.Snapshot, error) {
	assignments, err := s.assignmentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	kits, err := s.kitRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	inventory, err := s.inventoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &requirements.Snapshot{
		Assignments: assignments,
		Kits:        kits,
		Inventory:   inventory,
		Jobs:        jobs,
		Requests:    requests,
		Clients:     clients,
		Vendors:     vendors,
	}, nil
}

func (s *OperationsService) calculator(ctx context.Context) (*requirements.Calculator, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return requirements.NewCalculator(snap, s.logger), nil
}

// MaterialSummaryReport returns merged shortages across all demand
func (s *OperationsService) MaterialSummaryReport(ctx context.Context) ([]requirements.Row, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.MaterialSummary(), nil
}

// ProcessingReport returns shortages of materials that need processing,
// net of in-flight job output
func (s *OperationsService) ProcessingReport(ctx context.Context) ([]requirements.Row, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.ProcessingRequirements(), nil
}

// ProcurementReport returns the purchasing view with vendor suggestions
func (s *OperationsService) ProcurementReport(ctx context.Context) ([]requirements.Row, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.ProcurementSummary(), nil
}

// KitWiseReport returns shortages grouped by kit
func (s *OperationsService) KitWiseReport(ctx context.Context) ([]requirements.KitGroup, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.KitWise(), nil
}

// MonthWiseReport returns shortages grouped by production month, newest
// month first
func (s *OperationsService) MonthWiseReport(ctx context.Context) ([]requirements.MonthGroup, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.MonthWise(), nil
}

// ClientWiseReport returns shortages grouped by client
func (s *OperationsService) ClientWiseReport(ctx context.Context) ([]requirements.ClientGroup, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.ClientWise(), nil
}

// AssignmentWiseReport returns shortages per individual assignment
func (s *OperationsService) AssignmentWiseReport(ctx context.Context) ([]requirements.AssignmentGroup, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.AssignmentWise(), nil
}

// ExportMaterialSummary renders the material summary as an xlsx workbook
func (s *OperationsService) ExportMaterialSummary(ctx context.Context, sheetName string) ([]byte, error) {
	rows, err := s.MaterialSummaryReport(ctx)
	if err != nil {
		return nil, err
	}
	return export.MaterialSummaryWorkbook(rows, sheetName)
}
