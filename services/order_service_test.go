package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{AppName: "Coffee Shop POS", Location: time.UTC},
		Auth: &structs.AuthConfig{
			AccessTokenSecret: "test-secret",
			AccessTokenExpiry: time.Hour,
			BlacklistCacheTTL: time.Hour,
			CacheUserTTL:      time.Minute,
			BcryptCost:        4,
			AdminUsername:     "admin",
			AdminFullName:     "System Administrator",
		},
		Cache:  &structs.CacheConfig{MenuTTL: time.Minute},
		Email:  &structs.EmailConfig{From: "pos@example.com"},
		Broker: &structs.BrokerConfig{OrderExchange: "orders_topic"},
		Orders: &structs.OrdersConfig{StrictTransitions: true, NumberPrefix: "ORD", NumberAttempts: 3},
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

type orderFixture struct {
	service   *OrderService
	orders    *mockOrderStore
	menuItems *mockMenuItemStore
	publisher *fakePublisher
	cfg       *structs.Config
}

func newOrderFixture(t *testing.T) *orderFixture {
	logger := gecho.NewDefaultLogger()
	cfg := testConfig()
	orders := newMockOrderStore(t)
	menuItems := newMockMenuItemStore(t)
	publisher := &fakePublisher{}

	return &orderFixture{
		service:   NewOrderService(logger, cfg, orders, menuItems, NewEventService(logger, publisher)),
		orders:    orders,
		menuItems: menuItems,
		publisher: publisher,
		cfg:       cfg,
	}
}

func existingOrder(id int64, status tables.OrderStatus, items ...*tables.OrderItem) *tables.OrderDetails {
	details := &tables.OrderDetails{Order: tables.Order{
		ID:          id,
		OrderNumber: "ORD-20260301-0000000A",
		WaiterID:    int64Ptr(7),
		TableID:     int64Ptr(3),
		Status:      status,
		Items:       items,
	}}
	details.RecalculateTotal()
	return details
}

func TestCreateOrderComputesTotalAndPublishes(t *testing.T) {
	f := newOrderFixture(t)

	order := &tables.Order{
		TableID:   int64Ptr(3),
		WaiterID:  int64Ptr(7),
		CreatedAt: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		Items: []*tables.OrderItem{
			tables.NewOrderItem(1, 2, decimal.RequireFromString("4.50")),
			tables.NewOrderItem(2, 1, decimal.RequireFromString("3.00")),
		},
	}

	f.orders.On("Save", mock.Anything, mock.MatchedBy(func(o *tables.Order) bool {
		return o.Status == tables.OrderStatusNew &&
			o.TotalAmount.Equal(decimal.RequireFromString("12.00")) &&
			o.CreatedAt.IsZero()
	})).Return(func(_ context.Context, o *tables.Order) *tables.Order {
		saved := *o
		saved.ID = 42
		saved.OrderNumber = "ORD-20260301-ABCDEF01"
		return &saved
	}, nil).Once()

	saved, err := f.service.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID)
	assert.Equal(t, "12.00", saved.TotalAmount.StringFixed(2))
	assert.Equal(t, 3, saved.TotalItems())

	require.Equal(t, []string{EventOrderCreated}, f.publisher.keys)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(f.publisher.bodies[0], &event))
	assert.Equal(t, int64(42), event.OrderID)
	assert.Equal(t, tables.OrderStatusNew, event.Status)
	assert.True(t, event.TotalAmount.Equal(decimal.RequireFromString("12")))
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		order   *tables.Order
		message string
	}{
		{
			name:    "missing waiter",
			order:   &tables.Order{Items: []*tables.OrderItem{tables.NewOrderItem(1, 1, decimal.NewFromInt(2))}},
			message: "Waiter is required",
		},
		{
			name: "zero quantity",
			order: &tables.Order{
				WaiterID: int64Ptr(7),
				Items:    []*tables.OrderItem{tables.NewOrderItem(1, 0, decimal.NewFromInt(2))},
			},
			message: "Quantity must be greater than 0",
		},
		{
			name: "negative price",
			order: &tables.Order{
				WaiterID: int64Ptr(7),
				Items:    []*tables.OrderItem{tables.NewOrderItem(1, 1, decimal.NewFromInt(-2))},
			},
			message: "Unit price cannot be negative",
		},
		{
			name:    "unknown status",
			order:   &tables.Order{WaiterID: int64Ptr(7), Status: "SERVED"},
			message: "Invalid order status: SERVED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)

			_, err := f.service.CreateOrder(context.Background(), tt.order)
			require.Error(t, err)
			assert.True(t, lib.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, f.publisher.keys)
		})
	}
}

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to tables.OrderStatus
		want     bool
	}{
		{tables.OrderStatusNew, tables.OrderStatusInProgress, true},
		{tables.OrderStatusNew, tables.OrderStatusReady, true},
		{tables.OrderStatusNew, tables.OrderStatusCancelled, true},
		{tables.OrderStatusInProgress, tables.OrderStatusCompleted, true},
		{tables.OrderStatusReady, tables.OrderStatusCancelled, true},
		{tables.OrderStatusReady, tables.OrderStatusInProgress, false},
		{tables.OrderStatusInProgress, tables.OrderStatusNew, false},
		{tables.OrderStatusNew, tables.OrderStatusNew, false},
		{tables.OrderStatusCompleted, tables.OrderStatusCancelled, false},
		{tables.OrderStatusCancelled, tables.OrderStatusNew, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, isValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("forward move is recorded and published", func(t *testing.T) {
		f := newOrderFixture(t)
		changedBy := int64Ptr(9)

		f.orders.On("FindByID", mock.Anything, int64(5)).Return(existingOrder(5, tables.OrderStatusNew), nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, int64(5), tables.OrderStatusReady, changedBy).Return(nil).Once()

		require.NoError(t, f.service.UpdateOrderStatus(context.Background(), 5, tables.OrderStatusReady, changedBy))
		require.Equal(t, []string{"order.status.ready"}, f.publisher.keys)

		var event OrderEvent
		require.NoError(t, json.Unmarshal(f.publisher.bodies[0], &event))
		assert.Equal(t, EventOrderStatusChanged, event.Event)
		assert.Equal(t, tables.OrderStatusNew, event.PreviousStatus)
		assert.Equal(t, tables.OrderStatusReady, event.Status)
		require.NotNil(t, event.ChangedBy)
		assert.Equal(t, int64(9), *event.ChangedBy)
	})

	t.Run("terminal order is rejected in strict mode", func(t *testing.T) {
		f := newOrderFixture(t)

		f.orders.On("FindByID", mock.Anything, int64(5)).Return(existingOrder(5, tables.OrderStatusCompleted), nil).Once()

		err := f.service.UpdateOrderStatus(context.Background(), 5, tables.OrderStatusInProgress, nil)
		require.Error(t, err)
		assert.True(t, lib.IsValidation(err))
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.keys)
	})

	t.Run("permissive mode accepts any valid status", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cfg.Orders.StrictTransitions = false

		f.orders.On("FindByID", mock.Anything, int64(5)).Return(existingOrder(5, tables.OrderStatusCompleted), nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, int64(5), tables.OrderStatusNew, (*int64)(nil)).Return(nil).Once()

		require.NoError(t, f.service.UpdateOrderStatus(context.Background(), 5, tables.OrderStatusNew, nil))
	})

	t.Run("invalid status never reaches the store", func(t *testing.T) {
		f := newOrderFixture(t)

		err := f.service.UpdateOrderStatus(context.Background(), 5, "SERVED", nil)
		assert.True(t, lib.IsValidation(err))
	})

	t.Run("missing order", func(t *testing.T) {
		f := newOrderFixture(t)

		f.orders.On("FindByID", mock.Anything, int64(404)).Return(nil, nil).Once()

		err := f.service.UpdateOrderStatus(context.Background(), 404, tables.OrderStatusReady, nil)
		require.Error(t, err)
		assert.True(t, lib.IsNotFound(err))
		assert.Equal(t, "Order not found with ID: 404", err.Error())
	})
}

func TestAddItemToOrderRecomputesTotal(t *testing.T) {
	f := newOrderFixture(t)

	current := existingOrder(5, tables.OrderStatusInProgress,
		&tables.OrderItem{ID: 1, MenuItemID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("4.50"), TotalPrice: decimal.RequireFromString("9.00")})

	f.orders.On("FindByID", mock.Anything, int64(5)).Return(current, nil).Twice()
	f.orders.On("Update", mock.Anything, mock.MatchedBy(func(o *tables.Order) bool {
		return len(o.Items) == 2 && o.TotalAmount.Equal(decimal.RequireFromString("12.00"))
	})).Return(nil).Once()

	updated, err := f.service.AddItemToOrder(context.Background(), 5, tables.NewOrderItem(2, 1, decimal.RequireFromString("3.00")))
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, int64(5), updated.Items[1].OrderID)
}

func TestAddItemToMissingOrder(t *testing.T) {
	f := newOrderFixture(t)

	f.orders.On("FindByID", mock.Anything, int64(99)).Return(nil, nil).Once()

	_, err := f.service.AddItemToOrder(context.Background(), 99, tables.NewOrderItem(2, 1, decimal.NewFromInt(3)))
	assert.True(t, lib.IsNotFound(err))
}

func TestRemoveUnknownItemIsValidationError(t *testing.T) {
	f := newOrderFixture(t)

	current := existingOrder(5, tables.OrderStatusNew,
		&tables.OrderItem{ID: 1, MenuItemID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(3), TotalPrice: decimal.NewFromInt(3)})
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(current, nil).Once()

	_, err := f.service.RemoveItemFromOrder(context.Background(), 5, 77)
	require.Error(t, err)
	assert.True(t, lib.IsValidation(err))
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTerminalOrderCannotBeEdited(t *testing.T) {
	f := newOrderFixture(t)

	f.orders.On("FindByID", mock.Anything, int64(5)).Return(existingOrder(5, tables.OrderStatusCancelled), nil).Once()

	_, err := f.service.AddItemToOrder(context.Background(), 5, tables.NewOrderItem(2, 1, decimal.NewFromInt(3)))
	assert.True(t, lib.IsValidation(err))
}

func TestUpdateOrderKeepsCapturedPriceAndWaiter(t *testing.T) {
	f := newOrderFixture(t)

	current := existingOrder(5, tables.OrderStatusInProgress,
		&tables.OrderItem{ID: 11, MenuItemID: 1, MenuItemName: "Flat White", Quantity: 2, UnitPrice: decimal.RequireFromString("3.50"), TotalPrice: decimal.RequireFromString("7.00")})
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(current, nil).Twice()

	var stored *tables.Order
	f.orders.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*tables.Order)
	}).Return(nil).Once()

	edit := &tables.Order{
		ID:    5,
		Notes: "extra hot",
		Items: []*tables.OrderItem{
			{ID: 11, MenuItemID: 1, Quantity: 3},
			tables.NewOrderItem(2, 1, decimal.RequireFromString("2.00")),
		},
	}
	_, err := f.service.UpdateOrder(context.Background(), edit)
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, int64(7), *stored.WaiterID)
	assert.Equal(t, tables.OrderStatusInProgress, stored.Status)
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("3.50")))
	assert.True(t, stored.Items[0].TotalPrice.Equal(decimal.RequireFromString("10.50")))
	assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("12.50")))
}

func TestUpdateOrderRejectsForeignLines(t *testing.T) {
	tests := []struct {
		name string
		item *tables.OrderItem
	}{
		{name: "unknown line", item: &tables.OrderItem{ID: 99, MenuItemID: 1, Quantity: 1}},
		{name: "swapped menu item", item: &tables.OrderItem{ID: 11, MenuItemID: 4, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)

			current := existingOrder(5, tables.OrderStatusNew,
				&tables.OrderItem{ID: 11, MenuItemID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(3), TotalPrice: decimal.NewFromInt(3)})
			f.orders.On("FindByID", mock.Anything, int64(5)).Return(current, nil).Once()

			_, err := f.service.UpdateOrder(context.Background(), &tables.Order{ID: 5, Items: []*tables.OrderItem{tt.item}})
			require.Error(t, err)
			assert.True(t, lib.IsValidation(err))
			f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestBuildOrderItem(t *testing.T) {
	f := newOrderFixture(t)

	latte := &tables.MenuItem{ID: 1, Name: "Latte", Price: decimal.RequireFromString("4.50"), IsAvailable: true}
	soldOut := &tables.MenuItem{ID: 2, Name: "Cheesecake", Price: decimal.RequireFromString("5.00")}

	f.menuItems.On("FindByID", mock.Anything, int64(1)).Return(latte, nil).Once()
	f.menuItems.On("FindByID", mock.Anything, int64(2)).Return(soldOut, nil).Once()
	f.menuItems.On("FindByID", mock.Anything, int64(3)).Return(nil, nil).Once()

	item, err := f.service.BuildOrderItem(context.Background(), 1, 2, "oat milk")
	require.NoError(t, err)
	assert.Equal(t, "9.00", item.TotalPrice.StringFixed(2))
	assert.Equal(t, "Latte", item.MenuItemName)
	assert.Equal(t, "oat milk", item.SpecialInstructions)

	_, err = f.service.BuildOrderItem(context.Background(), 2, 1, "")
	assert.EqualError(t, err, "Menu item is not available: Cheesecake")

	_, err = f.service.BuildOrderItem(context.Background(), 3, 1, "")
	assert.EqualError(t, err, "Menu item not found with ID: 3")

	_, err = f.service.BuildOrderItem(context.Background(), 1, 0, "")
	assert.EqualError(t, err, "Quantity must be greater than 0")
}

func TestGetOrdersByDateRange(t *testing.T) {
	f := newOrderFixture(t)

	from := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	wantStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)

	f.orders.On("FindByDateRange", mock.Anything, wantStart, wantEnd).Return([]tables.OrderDetails{}, nil).Once()

	orders, err := f.service.GetOrdersByDateRange(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = f.service.GetOrdersByDateRange(context.Background(), to, from)
	assert.EqualError(t, err, "End date cannot be before start date")
}

func TestGetStatusHistoryOfMissingOrder(t *testing.T) {
	f := newOrderFixture(t)

	f.orders.On("ExistsByID", mock.Anything, int64(8)).Return(false, nil).Once()

	_, err := f.service.GetStatusHistory(context.Background(), 8)
	assert.True(t, lib.IsNotFound(err))
}
