package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

// CreateProcessingJob creates a new processing job
func (s *OperationsService) CreateProcessingJob(ctx context.Context, job *domain.ProcessingJob) error {
	if len(job.Sources) == 0 {
		return errors.BadRequest("processing job needs at least one source material")
	}
	if len(job.Targets) == 0 {
		return errors.BadRequest("processing job needs at least one target material")
	}
	for _, id := range job.AssignmentIDs {
		if _, err := s.assignmentRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return s.jobRepo.Create(ctx, job)
}

// GetProcessingJob gets a job by ID
func (s *OperationsService) GetProcessingJob(ctx context.Context, id string) (*domain.ProcessingJob, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// ListProcessingJobs lists jobs with pagination
func (s *OperationsService) ListProcessingJobs(ctx context.Context, page, perPage int, status string) ([]*domain.ProcessingJob, int64, error) {
	return s.jobRepo.List(ctx, page, perPage, status)
}

// DeleteProcessingJob soft deletes a job
func (s *OperationsService) DeleteProcessingJob(ctx context.Context, id string) error {
	return s.jobRepo.SoftDelete(ctx, id)
}

// TransitionJob moves a processing job through its lifecycle with the
// stock moves each transition implies: starting reserves source materials,
// completing credits target materials, cancelling a started job releases
// the reserved sources. All moves commit atomically with the status.
func (s *OperationsService) TransitionJob(ctx context.Context, id string, next domain.JobStatus) (*domain.ProcessingJob, error) {
	if !next.Valid() {
		return nil, errors.BadRequest("invalid job status: " + string(next))
	}

	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := job.Status
	if !oldStatus.CanTransitionTo(next) {
		return nil, errors.InvalidTransition(string(oldStatus), string(next))
	}

	var lowStockIDs []string
	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		switch {
		case next == domain.JobInProgress:
			ids, err := s.debitJobMaterials(ctx, tx, job.Sources)
			if err != nil {
				return err
			}
			lowStockIDs = ids
		case next == domain.JobCompleted:
			if err := s.creditJobMaterials(ctx, tx, job.Targets); err != nil {
				return err
			}
		case next == domain.JobCancelled && oldStatus == domain.JobInProgress:
			if err := s.creditJobMaterials(ctx, tx, job.Sources); err != nil {
				return err
			}
		}
		return s.jobRepo.UpdateStatusTx(ctx, tx, id, next)
	})
	if err != nil {
		return nil, err
	}

	job.Status = next
	s.logger.Info().
		Str("job_id", id).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(next)).
		Msg("processing job transitioned")

	s.publisher.PublishJobStatusChanged(ctx, job, oldStatus)
	s.notifyLowStock(ctx, lowStockIDs)

	return job, nil
}

// debitJobMaterials decrements stock for each material inside the caller's
// transaction and returns the ids of items that fell below their minimum
func (s *OperationsService) debitJobMaterials(ctx context.Context, tx *sqlx.Tx, materials domain.JobMaterialList) ([]string, error) {
	var lowStockIDs []string
	for _, m := range materials {
		newQuantity, err := s.inventoryRepo.DecrementStockTx(ctx, tx, m.InventoryID, m.Quantity, m.Name)
		if err != nil {
			return nil, err
		}
		item, err := s.inventoryRepo.GetByID(ctx, m.InventoryID)
		if err == nil && newQuantity.LessThan(item.MinStockLevel) {
			lowStockIDs = append(lowStockIDs, m.InventoryID)
		}
	}
	return lowStockIDs, nil
}

// creditJobMaterials increments stock for each material inside the
// caller's transaction
func (s *OperationsService) creditJobMaterials(ctx context.Context, tx *sqlx.Tx, materials domain.JobMaterialList) error {
	for _, m := range materials {
		if _, err := s.inventoryRepo.IncrementStockTx(ctx, tx, m.InventoryID, m.Quantity); err != nil {
			return err
		}
	}
	return nil
}
