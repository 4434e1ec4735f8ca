// Package events publishes operations domain events to RabbitMQ. A nil
// publisher is a no-op so callers can run without a broker in tests.
package events

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/logger"
	"github.com/kitworks/kitops-backend/pkg/messaging"
)

// OperationsEventPublisher publishes operations-related events
type OperationsEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewOperationsEventPublisher creates a new operations event publisher
func NewOperationsEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*OperationsEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeOperationsEvents, "operations-service", log)
	if err != nil {
		return nil, err
	}

	return &OperationsEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishAssignmentCreated publishes an assignment created event
func (p *OperationsEventPublisher) PublishAssignmentCreated(ctx context.Context, assignment *domain.Assignment) {
	if p == nil {
		return
	}

	data := messaging.AssignmentCreatedEvent{
		AssignmentID:    assignment.ID,
		KitID:           assignment.KitID,
		ClientID:        assignment.ClientID,
		Quantity:        assignment.Quantity,
		BatchNumber:     assignment.BatchNumber,
		ProductionMonth: assignment.ProductionMonth,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAssignmentCreated, data); err != nil {
		p.logger.Error().Err(err).Str("assignment_id", assignment.ID).Msg("failed to publish assignment created event")
	}
}

// PublishAssignmentStatusChanged publishes an assignment status change
func (p *OperationsEventPublisher) PublishAssignmentStatusChanged(ctx context.Context, assignment *domain.Assignment, oldStatus domain.AssignmentStatus) {
	if p == nil {
		return
	}

	data := messaging.AssignmentStatusChangedEvent{
		AssignmentID: assignment.ID,
		KitID:        assignment.KitID,
		OldStatus:    string(oldStatus),
		NewStatus:    string(assignment.Status),
	}

	if err := p.publisher.Publish(ctx, messaging.EventAssignmentStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Str("assignment_id", assignment.ID).Msg("failed to publish assignment status event")
	}
}

// PublishStockAdjusted publishes a stock adjusted event
func (p *OperationsEventPublisher) PublishStockAdjusted(ctx context.Context, item *domain.InventoryItem, delta, newQuantity decimal.Decimal, reason string) {
	if p == nil {
		return
	}

	data := messaging.StockAdjustedEvent{
		ItemID:      item.ID,
		ItemName:    item.Name,
		Delta:       delta,
		NewQuantity: newQuantity,
		Reason:      reason,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockAdjusted, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to publish stock adjusted event")
	}
}

// PublishStockLow publishes a low stock alert event
func (p *OperationsEventPublisher) PublishStockLow(ctx context.Context, item *domain.InventoryItem) {
	if p == nil {
		return
	}

	data := messaging.StockLowEvent{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Quantity:      item.Quantity,
		MinStockLevel: item.MinStockLevel,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockLow, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to publish stock low event")
	}
}

// PublishJobStatusChanged publishes a processing job status change
func (p *OperationsEventPublisher) PublishJobStatusChanged(ctx context.Context, job *domain.ProcessingJob, oldStatus domain.JobStatus) {
	if p == nil {
		return
	}

	data := messaging.JobStatusChangedEvent{
		JobID:         job.ID,
		OldStatus:     string(oldStatus),
		NewStatus:     string(job.Status),
		AssignmentIDs: job.AssignmentIDs,
	}

	if err := p.publisher.Publish(ctx, messaging.EventJobStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to publish job status event")
	}
}

// PublishRequestApproved publishes a material request approval
func (p *OperationsEventPublisher) PublishRequestApproved(ctx context.Context, request *domain.MaterialRequest) {
	if p == nil {
		return
	}

	data := messaging.RequestApprovedEvent{
		RequestID:    request.ID,
		AssignmentID: request.AssignmentID,
		ItemCount:    len(request.Items),
	}

	if err := p.publisher.Publish(ctx, messaging.EventRequestApproved, data); err != nil {
		p.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to publish request approved event")
	}
}

// PublishRequestRejected publishes a material request rejection
func (p *OperationsEventPublisher) PublishRequestRejected(ctx context.Context, request *domain.MaterialRequest, reason string) {
	if p == nil {
		return
	}

	data := messaging.RequestRejectedEvent{
		RequestID: request.ID,
		Reason:    reason,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRequestRejected, data); err != nil {
		p.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to publish request rejected event")
	}
}
