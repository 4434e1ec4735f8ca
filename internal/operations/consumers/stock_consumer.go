// Package consumers reacts to operations events from RabbitMQ.
package consumers

import (
	"context"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/repository"
	"github.com/kitworks/kitops-backend/pkg/logger"
	"github.com/kitworks/kitops-backend/pkg/messaging"
)

// StockEventConsumer consumes low-stock events and opens a pending
// material request for the shortfall, so procurement sees replenishment
// needs without polling the reports.
type StockEventConsumer struct {
	consumer    *messaging.Consumer
	requestRepo *repository.RequestRepository
	logger      *logger.Logger
}

// NewStockEventConsumer creates a new stock event consumer
func NewStockEventConsumer(rmq *messaging.RabbitMQ, requestRepo *repository.RequestRepository, log *logger.Logger) (*StockEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "operations-service.stock-events", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeOperationsEvents, "operations.inventory.stock.#"); err != nil {
		return nil, err
	}

	c := &StockEventConsumer{
		consumer:    consumer,
		requestRepo: requestRepo,
		logger:      log.WithComponent("stock-consumer"),
	}

	consumer.RegisterHandler(messaging.EventStockLow, c.handleStockLow)

	return c, nil
}

// Start starts consuming messages
func (c *StockEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *StockEventConsumer) handleStockLow(ctx context.Context, event *messaging.Event) error {
	var data messaging.StockLowEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("item_id", data.ItemID).
		Str("item_name", data.ItemName).
		Msg("received stock low event")

	// Skip when a pending request for the item is already open
	open, err := c.hasOpenRequest(ctx, data.ItemID)
	if err != nil {
		return err
	}
	if open {
		return nil
	}

	shortfall := data.MinStockLevel.Sub(data.Quantity)
	if shortfall.Sign() <= 0 {
		return nil
	}

	request := &domain.MaterialRequest{
		Items: domain.RequestItemList{
			{InventoryID: &data.ItemID, Name: data.ItemName, Quantity: shortfall},
		},
	}
	if err := c.requestRepo.Create(ctx, request); err != nil {
		return err
	}

	c.logger.Info().
		Str("request_id", request.ID).
		Str("item_id", data.ItemID).
		Str("quantity", shortfall.String()).
		Msg("opened material request for low stock item")
	return nil
}

// hasOpenRequest reports whether any pending request already covers the
// item. Paging through pending requests is fine at console scale.
func (c *StockEventConsumer) hasOpenRequest(ctx context.Context, itemID string) (bool, error) {
	page := 1
	for {
		requests, _, err := c.requestRepo.List(ctx, page, 100, string(domain.RequestPending))
		if err != nil {
			return false, err
		}
		if len(requests) == 0 {
			return false, nil
		}
		for _, req := range requests {
			for _, item := range req.Items {
				if item.InventoryID != nil && *item.InventoryID == itemID {
					return true, nil
				}
			}
		}
		page++
	}
}
