package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

// CreateMaterialRequest creates a new material request
func (s *OperationsService) CreateMaterialRequest(ctx context.Context, request *domain.MaterialRequest) error {
	if len(request.Items) == 0 {
		return errors.BadRequest("material request needs at least one item")
	}
	if request.AssignmentID != nil {
		if _, err := s.assignmentRepo.GetByID(ctx, *request.AssignmentID); err != nil {
			return err
		}
	}
	return s.requestRepo.Create(ctx, request)
}

// GetMaterialRequest gets a request by ID
func (s *OperationsService) GetMaterialRequest(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// ListMaterialRequests lists requests with pagination
func (s *OperationsService) ListMaterialRequests(ctx context.Context, page, perPage int, status string) ([]*domain.MaterialRequest, int64, error) {
	return s.requestRepo.List(ctx, page, perPage, status)
}

// DeleteMaterialRequest soft deletes a request
func (s *OperationsService) DeleteMaterialRequest(ctx context.Context, id string) error {
	return s.requestRepo.SoftDelete(ctx, id)
}

// ApproveMaterialRequest approves a pending request. Approved requests
// count as on-order quantity in the procurement report until fulfilled.
func (s *OperationsService) ApproveMaterialRequest(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, errors.InvalidTransition(string(request.Status), string(domain.RequestApproved))
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, domain.RequestApproved); err != nil {
		return nil, err
	}

	request.Status = domain.RequestApproved
	s.publisher.PublishRequestApproved(ctx, request)
	return request, nil
}

// RejectMaterialRequest rejects a pending request
func (s *OperationsService) RejectMaterialRequest(ctx context.Context, id, reason string) (*domain.MaterialRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, errors.InvalidTransition(string(request.Status), string(domain.RequestRejected))
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, domain.RequestRejected); err != nil {
		return nil, err
	}

	request.Status = domain.RequestRejected
	s.publisher.PublishRequestRejected(ctx, request, reason)
	return request, nil
}

// SetPurchasedQuantities records the procurement operator's manual
// purchasing overrides on a request
func (s *OperationsService) SetPurchasedQuantities(ctx context.Context, id string, purchased domain.QuantityMap) (*domain.MaterialRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.UpdatePurchasedQuantities(ctx, id, purchased); err != nil {
		return nil, err
	}

	request.PurchasedQuantities = purchased
	return request, nil
}

// FulfillMaterialRequest marks an approved request as delivered: each
// item that resolves to inventory is credited, and the request stops
// counting as on-order quantity. Credits and the flag commit atomically.
func (s *OperationsService) FulfillMaterialRequest(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestApproved {
		return nil, errors.BadRequest("only approved requests can be fulfilled")
	}
	if request.Fulfilled {
		return nil, errors.Conflict("material request already fulfilled")
	}

	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, item := range request.Items {
			itemID := ""
			if item.InventoryID != nil {
				itemID = *item.InventoryID
			} else if inv, err := s.inventoryRepo.GetByName(ctx, item.Name); err == nil {
				itemID = inv.ID
			}
			if itemID == "" {
				s.logger.Warn().
					Str("request_id", id).
					Str("material", item.Name).
					Msg("request item has no inventory match, skipping stock credit")
				continue
			}
			if _, err := s.inventoryRepo.IncrementStockTx(ctx, tx, itemID, item.Quantity); err != nil {
				return err
			}
		}
		return s.requestRepo.MarkFulfilledTx(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	request.Fulfilled = true
	s.logger.Info().Str("request_id", id).Msg("material request fulfilled")
	return request, nil
}
