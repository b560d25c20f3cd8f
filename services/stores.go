package services

import (
	"coffeeshop_server/structs/tables"
	"context"
	"time"
)

// The services depend on these interfaces; the repository package provides
// the PostgreSQL implementations.

type OrderStore interface {
	Save(ctx context.Context, order *tables.Order) (*tables.Order, error)
	FindByID(ctx context.Context, id int64) (*tables.OrderDetails, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*tables.OrderDetails, error)
	FindByStatus(ctx context.Context, status tables.OrderStatus) ([]tables.OrderDetails, error)
	FindByWaiter(ctx context.Context, waiterID int64) ([]tables.OrderDetails, error)
	FindByTable(ctx context.Context, tableID int64) ([]tables.OrderDetails, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]tables.OrderDetails, error)
	FindTodaysOrders(ctx context.Context) ([]tables.OrderDetails, error)
	FindAll(ctx context.Context) ([]tables.OrderDetails, error)
	FindActiveOrders(ctx context.Context) ([]tables.OrderDetails, error)
	FindCompletedOrders(ctx context.Context) ([]tables.OrderDetails, error)
	SearchOrders(ctx context.Context, term string) ([]tables.OrderDetails, error)
	UpdateStatus(ctx context.Context, id int64, status tables.OrderStatus, changedBy *int64) error
	Update(ctx context.Context, order *tables.Order) error
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	StatusHistory(ctx context.Context, orderID int64) ([]tables.OrderStatusLog, error)
}

type TableStore interface {
	FindByID(ctx context.Context, id int64) (*tables.Table, error)
	FindByNumber(ctx context.Context, number string) (*tables.Table, error)
	FindAll(ctx context.Context) ([]tables.Table, error)
	FindActive(ctx context.Context) ([]tables.Table, error)
	FindAvailable(ctx context.Context) ([]tables.Table, error)
	FindByCapacity(ctx context.Context, minCapacity int) ([]tables.Table, error)
	Save(ctx context.Context, table *tables.Table) (*tables.Table, error)
	Update(ctx context.Context, table *tables.Table) error
	UpdateActive(ctx context.Context, id int64, active bool) error
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

type CategoryStore interface {
	FindAll(ctx context.Context) ([]tables.Category, error)
	FindActive(ctx context.Context) ([]tables.Category, error)
	FindByID(ctx context.Context, id int64) (*tables.Category, error)
	Save(ctx context.Context, category *tables.Category) (*tables.Category, error)
	Update(ctx context.Context, category *tables.Category) error
	UpdateActive(ctx context.Context, id int64, active bool) error
	DeleteByID(ctx context.Context, id int64) error
}

type MenuItemStore interface {
	FindAll(ctx context.Context) ([]tables.MenuItem, error)
	FindAvailable(ctx context.Context) ([]tables.MenuItem, error)
	FindByCategory(ctx context.Context, categoryID int64) ([]tables.MenuItem, error)
	SearchByName(ctx context.Context, term string) ([]tables.MenuItem, error)
	FindByID(ctx context.Context, id int64) (*tables.MenuItem, error)
	Save(ctx context.Context, item *tables.MenuItem) (*tables.MenuItem, error)
	Update(ctx context.Context, item *tables.MenuItem) error
	UpdateAvailability(ctx context.Context, id int64, available bool) error
	DeleteByID(ctx context.Context, id int64) error
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
}

type UserStore interface {
	FindAll(ctx context.Context) ([]tables.User, error)
	FindByRole(ctx context.Context, role tables.UserRole) ([]tables.User, error)
	FindActive(ctx context.Context) ([]tables.User, error)
	FindByID(ctx context.Context, id int64) (*tables.User, error)
	FindByUsername(ctx context.Context, username string) (*tables.User, error)
	Save(ctx context.Context, user *tables.User) (*tables.User, error)
	Update(ctx context.Context, user *tables.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateActive(ctx context.Context, id int64, active bool) error
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
