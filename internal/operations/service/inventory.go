package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

// CreateInventoryItem creates a new inventory item
func (s *OperationsService) CreateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	if !item.Type.Valid() {
		return errors.BadRequest("invalid item type: " + string(item.Type))
	}
	return s.inventoryRepo.Create(ctx, item)
}

// GetInventoryItem gets an inventory item by ID
func (s *OperationsService) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return s.inventoryRepo.GetByID(ctx, id)
}

// ListInventoryItems lists inventory items with pagination
func (s *OperationsService) ListInventoryItems(ctx context.Context, page, perPage int, itemType string) ([]*domain.InventoryItem, int64, error) {
	return s.inventoryRepo.List(ctx, page, perPage, itemType)
}

// UpdateInventoryItem updates an item's definition
func (s *OperationsService) UpdateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	if !item.Type.Valid() {
		return errors.BadRequest("invalid item type: " + string(item.Type))
	}
	return s.inventoryRepo.Update(ctx, item)
}

// DeleteInventoryItem soft deletes an item
func (s *OperationsService) DeleteInventoryItem(ctx context.Context, id string) error {
	return s.inventoryRepo.SoftDelete(ctx, id)
}

// AdjustStock applies a signed stock delta, publishes the adjustment and
// raises a low-stock alert when the item drops below its minimum level
func (s *OperationsService) AdjustStock(ctx context.Context, id string, delta decimal.Decimal, reason string) (*domain.InventoryItem, error) {
	if delta.IsZero() {
		return nil, errors.BadRequest("stock adjustment delta must be non-zero")
	}

	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newQuantity, err := s.inventoryRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("item_id", id).
		Str("delta", delta.String()).
		Str("new_quantity", newQuantity.String()).
		Str("reason", reason).
		Msg("stock adjusted")

	s.publisher.PublishStockAdjusted(ctx, item, delta, newQuantity, reason)

	item.Quantity = newQuantity
	if delta.Sign() < 0 && newQuantity.LessThan(item.MinStockLevel) {
		s.publisher.PublishStockLow(ctx, item)
	}

	return item, nil
}

// ScanLowStock publishes a low-stock event for every item under its
// minimum level and returns the offending items
func (s *OperationsService) ScanLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.inventoryRepo.ListBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		s.publisher.PublishStockLow(ctx, &items[i])
	}

	if len(items) > 0 {
		s.logger.Info().Int("count", len(items)).Msg("low stock items found")
	}
	return items, nil
}
