package services

import (
	"coffeeshop_server/structs/tables"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// ret returns the i-th mocked value as T, or T's zero value for a nil.
func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type mockOrderStore struct{ mock.Mock }

func newMockOrderStore(t *testing.T) *mockOrderStore {
	m := &mockOrderStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockOrderStore) Save(ctx context.Context, order *tables.Order) (*tables.Order, error) {
	args := m.Called(ctx, order)
	if fn, ok := args.Get(0).(func(context.Context, *tables.Order) *tables.Order); ok {
		return fn(ctx, order), args.Error(1)
	}
	return ret[*tables.Order](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindByID(ctx context.Context, id int64) (*tables.OrderDetails, error) {
	args := m.Called(ctx, id)
	return ret[*tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*tables.OrderDetails, error) {
	args := m.Called(ctx, orderNumber)
	return ret[*tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindByStatus(ctx context.Context, status tables.OrderStatus) ([]tables.OrderDetails, error) {
	args := m.Called(ctx, status)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindByWaiter(ctx context.Context, waiterID int64) ([]tables.OrderDetails, error) {
	args := m.Called(ctx, waiterID)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindByTable(ctx context.Context, tableID int64) ([]tables.OrderDetails, error) {
	args := m.Called(ctx, tableID)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindByDateRange(ctx context.Context, start, end time.Time) ([]tables.OrderDetails, error) {
	args := m.Called(ctx, start, end)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindTodaysOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	args := m.Called(ctx)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindAll(ctx context.Context) ([]tables.OrderDetails, error) {
	args := m.Called(ctx)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindActiveOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	args := m.Called(ctx)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) FindCompletedOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	args := m.Called(ctx)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) SearchOrders(ctx context.Context, term string) ([]tables.OrderDetails, error) {
	args := m.Called(ctx, term)
	return ret[[]tables.OrderDetails](args, 0), args.Error(1)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id int64, status tables.OrderStatus, changedBy *int64) error {
	return m.Called(ctx, id, status, changedBy).Error(0)
}

func (m *mockOrderStore) Update(ctx context.Context, order *tables.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderStore) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockOrderStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderStore) StatusHistory(ctx context.Context, orderID int64) ([]tables.OrderStatusLog, error) {
	args := m.Called(ctx, orderID)
	return ret[[]tables.OrderStatusLog](args, 0), args.Error(1)
}

type mockTableStore struct{ mock.Mock }

func newMockTableStore(t *testing.T) *mockTableStore {
	m := &mockTableStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockTableStore) FindByID(ctx context.Context, id int64) (*tables.Table, error) {
	args := m.Called(ctx, id)
	return ret[*tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) FindByNumber(ctx context.Context, number string) (*tables.Table, error) {
	args := m.Called(ctx, number)
	return ret[*tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) FindAll(ctx context.Context) ([]tables.Table, error) {
	args := m.Called(ctx)
	return ret[[]tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) FindActive(ctx context.Context) ([]tables.Table, error) {
	args := m.Called(ctx)
	return ret[[]tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) FindAvailable(ctx context.Context) ([]tables.Table, error) {
	args := m.Called(ctx)
	return ret[[]tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) FindByCapacity(ctx context.Context, minCapacity int) ([]tables.Table, error) {
	args := m.Called(ctx, minCapacity)
	return ret[[]tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) Save(ctx context.Context, table *tables.Table) (*tables.Table, error) {
	args := m.Called(ctx, table)
	return ret[*tables.Table](args, 0), args.Error(1)
}

func (m *mockTableStore) Update(ctx context.Context, table *tables.Table) error {
	return m.Called(ctx, table).Error(0)
}

func (m *mockTableStore) UpdateActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockTableStore) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTableStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockTableStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

type mockCategoryStore struct{ mock.Mock }

func newMockCategoryStore(t *testing.T) *mockCategoryStore {
	m := &mockCategoryStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockCategoryStore) FindAll(ctx context.Context) ([]tables.Category, error) {
	args := m.Called(ctx)
	return ret[[]tables.Category](args, 0), args.Error(1)
}

func (m *mockCategoryStore) FindActive(ctx context.Context) ([]tables.Category, error) {
	args := m.Called(ctx)
	return ret[[]tables.Category](args, 0), args.Error(1)
}

func (m *mockCategoryStore) FindByID(ctx context.Context, id int64) (*tables.Category, error) {
	args := m.Called(ctx, id)
	return ret[*tables.Category](args, 0), args.Error(1)
}

func (m *mockCategoryStore) Save(ctx context.Context, category *tables.Category) (*tables.Category, error) {
	args := m.Called(ctx, category)
	return ret[*tables.Category](args, 0), args.Error(1)
}

func (m *mockCategoryStore) Update(ctx context.Context, category *tables.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryStore) UpdateActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockCategoryStore) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockMenuItemStore struct{ mock.Mock }

func newMockMenuItemStore(t *testing.T) *mockMenuItemStore {
	m := &mockMenuItemStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockMenuItemStore) FindAll(ctx context.Context) ([]tables.MenuItem, error) {
	args := m.Called(ctx)
	return ret[[]tables.MenuItem](args, 0), args.Error(1)
}

func (m *mockMenuItemStore) FindAvailable(ctx context.Context) ([]tables.MenuItem, error) {
	args := m.Called(ctx)
	return ret[[]tables.MenuItem](args, 0), args.Error(1)
}

func (m *mockMenuItemStore) FindByCategory(ctx context.Context, categoryID int64) ([]tables.MenuItem, error) {
	args := m.Called(ctx, categoryID)
	return ret[[]tables.MenuItem](args, 0), args.Error(1)
}

func (m *mockMenuItemStore) SearchByName(ctx context.Context, term string) ([]tables.MenuItem, error) {
	args := m.Called(ctx, term)
	return ret[[]tables.MenuItem](args, 0), args.Error(1)
}

func (m *mockMenuItemStore) FindByID(ctx context.Context, id int64) (*tables.MenuItem, error) {
	args := m.Called(ctx, id)
	return ret[*tables.MenuItem](args, 0), args.Error(1)
}

func (m *mockMenuItemStore) Save(ctx context.Context, item *tables.MenuItem) (*tables.MenuItem, error) {
	args := m.Called(ctx, item)
	return ret[*tables.MenuItem](args, 0), args.Error(1)
}

func (m *mockMenuItemStore) Update(ctx context.Context, item *tables.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockMenuItemStore) UpdateAvailability(ctx context.Context, id int64, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func (m *mockMenuItemStore) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMenuItemStore) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func newMockUserStore(t *testing.T) *mockUserStore {
	m := &mockUserStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockUserStore) FindAll(ctx context.Context) ([]tables.User, error) {
	args := m.Called(ctx)
	return ret[[]tables.User](args, 0), args.Error(1)
}

func (m *mockUserStore) FindByRole(ctx context.Context, role tables.UserRole) ([]tables.User, error) {
	args := m.Called(ctx, role)
	return ret[[]tables.User](args, 0), args.Error(1)
}

func (m *mockUserStore) FindActive(ctx context.Context) ([]tables.User, error) {
	args := m.Called(ctx)
	return ret[[]tables.User](args, 0), args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id int64) (*tables.User, error) {
	args := m.Called(ctx, id)
	return ret[*tables.User](args, 0), args.Error(1)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (*tables.User, error) {
	args := m.Called(ctx, username)
	return ret[*tables.User](args, 0), args.Error(1)
}

func (m *mockUserStore) Save(ctx context.Context, user *tables.User) (*tables.User, error) {
	args := m.Called(ctx, user)
	return ret[*tables.User](args, 0), args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, user *tables.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserStore) UpdateActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockUserStore) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakePublisher records published events.
type fakePublisher struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	f.keys = append(f.keys, routingKey)
	f.bodies = append(f.bodies, body)
	return f.err
}
