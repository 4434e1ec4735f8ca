package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/requirements"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

// CreateAssignment creates an assignment and publishes the created event
func (s *OperationsService) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	if assignment.Quantity <= 0 {
		return errors.BadRequest("assignment quantity must be positive")
	}
	if _, err := s.kitRepo.GetByID(ctx, assignment.KitID); err != nil {
		return err
	}
	if _, err := s.clientRepo.GetByID(ctx, assignment.ClientID); err != nil {
		return err
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return err
	}

	s.publisher.PublishAssignmentCreated(ctx, assignment)
	return nil
}

// GetAssignment gets an assignment by ID
func (s *OperationsService) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	return s.assignmentRepo.GetByID(ctx, id)
}

// ListAssignments lists assignments with pagination
func (s *OperationsService) ListAssignments(ctx context.Context, page, perPage int, status string) ([]*domain.Assignment, int64, error) {
	return s.assignmentRepo.List(ctx, page, perPage, status)
}

// UpdateAssignment updates an assignment's mutable fields
func (s *OperationsService) UpdateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	if assignment.Quantity <= 0 {
		return errors.BadRequest("assignment quantity must be positive")
	}
	return s.assignmentRepo.Update(ctx, assignment)
}

// DeleteAssignment soft deletes an assignment
func (s *OperationsService) DeleteAssignment(ctx context.Context, id string) error {
	return s.assignmentRepo.SoftDelete(ctx, id)
}

// TransitionAssignment moves an assignment one step through its lifecycle.
// Moving to received_from_inventory decrements every flattened material's
// stock atomically; any insufficient item rolls the whole move back.
func (s *OperationsService) TransitionAssignment(ctx context.Context, id string, next domain.AssignmentStatus) (*domain.Assignment, error) {
	if !next.Valid() {
		return nil, errors.BadRequest("invalid assignment status: " + string(next))
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := assignment.Status
	if !oldStatus.CanTransitionTo(next) {
		return nil, errors.InvalidTransition(string(oldStatus), string(next))
	}

	var lowStockIDs []string
	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if next == domain.AssignmentReceived {
			ids, err := s.consumeKitMaterials(ctx, tx, assignment)
			if err != nil {
				return err
			}
			lowStockIDs = ids
		}
		return s.assignmentRepo.UpdateStatusTx(ctx, tx, id, next)
	})
	if err != nil {
		return nil, err
	}

	assignment.Status = next
	s.logger.Info().
		Str("assignment_id", id).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(next)).
		Msg("assignment transitioned")

	s.publisher.PublishAssignmentStatusChanged(ctx, assignment, oldStatus)
	s.notifyLowStock(ctx, lowStockIDs)

	return assignment, nil
}

// consumeKitMaterials decrements stock for every flattened material of the
// assignment's kit, scaled by the assignment quantity. Free-text lines
// with no inventory match are skipped with a warning. Returns the ids of
// items that fell below their minimum level.
func (s *OperationsService) consumeKitMaterials(ctx context.Context, tx *sqlx.Tx, assignment *domain.Assignment) ([]string, error) {
	kit, err := s.kitRepo.GetByID(ctx, assignment.KitID)
	if err != nil {
		return nil, err
	}

	inventory, err := s.inventoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	resolver := requirements.NewResolver(inventory)
	flattener := requirements.NewFlattener(resolver, s.logger)

	qty := decimal.NewFromInt(int64(assignment.Quantity))

	// merge duplicate lines so each item is decremented once
	needed := make(map[string]decimal.Decimal)
	names := make(map[string]string)
	var order []string
	for _, line := range flattener.FlattenKit(kit) {
		item, ok := resolver.Resolve(line.InventoryID, line.Name)
		if !ok {
			s.logger.Warn().
				Str("kit_id", kit.ID).
				Str("material", line.Name).
				Msg("kit material has no inventory match, skipping stock decrement")
			continue
		}
		if _, seen := needed[item.ID]; !seen {
			order = append(order, item.ID)
			names[item.ID] = item.Name
		}
		needed[item.ID] = needed[item.ID].Add(line.QuantityPerKit.Mul(qty))
	}

	var lowStockIDs []string
	for _, itemID := range order {
		newQuantity, err := s.inventoryRepo.DecrementStockTx(ctx, tx, itemID, needed[itemID], names[itemID])
		if err != nil {
			return nil, err
		}
		if item, ok := resolver.ByID(itemID); ok && newQuantity.LessThan(item.MinStockLevel) {
			lowStockIDs = append(lowStockIDs, itemID)
		}
	}

	return lowStockIDs, nil
}

// notifyLowStock re-reads and publishes low-stock alerts after a commit
func (s *OperationsService) notifyLowStock(ctx context.Context, itemIDs []string) {
	for _, id := range itemIDs {
		item, err := s.inventoryRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		s.publisher.PublishStockLow(ctx, item)
	}
}
