package services

import (
	"coffeeshop_server/structs/tables"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher is satisfied by *broker.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OrderEvent is the JSON body published for every order event.
type OrderEvent struct {
	Event          string             `json:"event"`
	OrderID        int64              `json:"order_id"`
	OrderNumber    string             `json:"order_number"`
	Status         tables.OrderStatus `json:"status"`
	PreviousStatus tables.OrderStatus `json:"previous_status,omitempty"`
	TableID        *int64             `json:"table_id,omitempty"`
	WaiterID       *int64             `json:"waiter_id,omitempty"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	ChangedBy      *int64             `json:"changed_by,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}

// EventService announces committed order changes, e.g. to kitchen displays.
// Publishing is best effort: failures are logged, never returned.
type EventService struct {
	logger    *gecho.Logger
	publisher EventPublisher
}

func NewEventService(logger *gecho.Logger, publisher EventPublisher) *EventService {
	return &EventService{logger: logger, publisher: publisher}
}

func StatusRoutingKey(status tables.OrderStatus) string {
	return "order.status." + strings.ToLower(string(status))
}

func (es *EventService) OrderCreated(ctx context.Context, order *tables.Order) {
	es.publish(ctx, EventOrderCreated, OrderEvent{
		Event:       EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TableID:     order.TableID,
		WaiterID:    order.WaiterID,
		TotalAmount: order.TotalAmount,
		ChangedBy:   order.WaiterID,
		Timestamp:   time.Now(),
	})
}

func (es *EventService) OrderStatusChanged(ctx context.Context, order *tables.Order, previous tables.OrderStatus, changedBy *int64) {
	es.publish(ctx, StatusRoutingKey(order.Status), OrderEvent{
		Event:          EventOrderStatusChanged,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		PreviousStatus: previous,
		TableID:        order.TableID,
		WaiterID:       order.WaiterID,
		TotalAmount:    order.TotalAmount,
		ChangedBy:      changedBy,
		Timestamp:      time.Now(),
	})
}

func (es *EventService) publish(ctx context.Context, routingKey string, event OrderEvent) {
	if es == nil || es.publisher == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		es.logger.Error("Failed to encode order event", gecho.Field("error", err))
		return
	}

	// The request may be finished before the broker answers
	if err := es.publisher.Publish(context.WithoutCancel(ctx), routingKey, body); err != nil {
		es.logger.Error("Failed to publish order event",
			gecho.Field("routing_key", routingKey),
			gecho.Field("order_id", event.OrderID),
			gecho.Field("error", err))
		return
	}

	es.logger.Debug("Order event published",
		gecho.Field("routing_key", routingKey),
		gecho.Field("order_id", event.OrderID))
}
