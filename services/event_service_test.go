package services

import (
	"coffeeshop_server/structs/tables"
	"context"
	"errors"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestStatusRoutingKey(t *testing.T) {
	assert.Equal(t, "order.status.in_progress", StatusRoutingKey(tables.OrderStatusInProgress))
	assert.Equal(t, "order.status.cancelled", StatusRoutingKey(tables.OrderStatusCancelled))
}

func TestEventServiceIsBestEffort(t *testing.T) {
	order := &tables.Order{ID: 1, OrderNumber: "ORD-20260301-00000001", Status: tables.OrderStatusNew}

	// No publisher configured
	var disabled *EventService
	assert.NotPanics(t, func() { disabled.OrderCreated(context.Background(), order) })
	assert.NotPanics(t, func() {
		NewEventService(gecho.NewDefaultLogger(), nil).OrderCreated(context.Background(), order)
	})

	failing := &fakePublisher{err: errors.New("broker down")}
	NewEventService(gecho.NewDefaultLogger(), failing).OrderCreated(context.Background(), order)
	assert.Equal(t, []string{EventOrderCreated}, failing.keys)
}
