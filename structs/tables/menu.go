package tables

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull,unique" json:"name"`
	Description string    `bun:"description,nullzero" json:"description,omitempty"`
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID              int64           `bun:"id,pk,autoincrement" json:"id"`
	Name            string          `bun:"name,notnull" json:"name"`
	CategoryID      int64           `bun:"category_id,notnull" json:"category_id"`
	CategoryName    string          `bun:"category_name,scanonly" json:"category_name,omitempty"`
	Description     string          `bun:"description,nullzero" json:"description,omitempty"`
	Price           decimal.Decimal `bun:"price,type:numeric(10,2),notnull" json:"price"`
	IsAvailable     bool            `bun:"is_available,notnull" json:"is_available"`
	ImagePath       string          `bun:"image_path,nullzero" json:"image_path,omitempty"`
	PreparationTime int             `bun:"preparation_time,notnull" json:"preparation_time"` // minutes
	CreatedAt       time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
