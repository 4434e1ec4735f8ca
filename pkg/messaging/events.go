package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	// Assignment events
	EventAssignmentCreated       = "operations.assignment.created"
	EventAssignmentStatusChanged = "operations.assignment.status.changed"

	// Inventory events
	EventStockAdjusted = "operations.inventory.stock.adjusted"
	EventStockLow      = "operations.inventory.stock.low"

	// Processing job events
	EventJobStatusChanged = "operations.job.status.changed"

	// Material request events
	EventRequestApproved = "operations.request.approved"
	EventRequestRejected = "operations.request.rejected"
)

// Exchange names
const (
	ExchangeOperationsEvents = "operations.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Assignment Events

// AssignmentCreatedEvent is published when an assignment is created
type AssignmentCreatedEvent struct {
	AssignmentID    string  `json:"assignment_id"`
	KitID           string  `json:"kit_id"`
	ClientID        string  `json:"client_id"`
	Quantity        int     `json:"quantity"`
	BatchNumber     string  `json:"batch_number"`
	ProductionMonth *string `json:"production_month,omitempty"`
}

// AssignmentStatusChangedEvent is published when an assignment moves through its lifecycle
type AssignmentStatusChangedEvent struct {
	AssignmentID string `json:"assignment_id"`
	KitID        string `json:"kit_id"`
	OldStatus    string `json:"old_status"`
	NewStatus    string `json:"new_status"`
}

// Inventory Events

// StockAdjustedEvent is published when an inventory item's stock changes
type StockAdjustedEvent struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Delta       decimal.Decimal `json:"delta"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// StockLowEvent is published when an item drops below its minimum stock level
type StockLowEvent struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// Processing Job Events

// JobStatusChangedEvent is published when a processing job transitions
type JobStatusChangedEvent struct {
	JobID         string   `json:"job_id"`
	OldStatus     string   `json:"old_status"`
	NewStatus     string   `json:"new_status"`
	AssignmentIDs []string `json:"assignment_ids,omitempty"`
}

// Material Request Events

// RequestApprovedEvent is published when a material request is approved
type RequestApprovedEvent struct {
	RequestID    string  `json:"request_id"`
	AssignmentID *string `json:"assignment_id,omitempty"`
	ItemCount    int     `json:"item_count"`
}

// RequestRejectedEvent is published when a material request is rejected
type RequestRejectedEvent struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason,omitempty"`
}
