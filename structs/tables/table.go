package tables

import (
	"time"

	"github.com/uptrace/bun"
)

// Table is a dining table. Availability is derived from open orders, never stored.
type Table struct {
	bun.BaseModel `bun:"table:tables,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	TableNumber string    `bun:"table_number,notnull,unique" json:"table_number"`
	Capacity    int       `bun:"capacity,notnull" json:"capacity"`
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
