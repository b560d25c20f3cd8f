package tables

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleWaiter  UserRole = "WAITER"
	RoleKitchen UserRole = "KITCHEN"
)

func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.Valid()
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleWaiter || r == RoleKitchen
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Password  string    `bun:"password,notnull" json:"-"` // bcrypt hash
	Role      UserRole  `bun:"role,notnull" json:"role"`
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	Email     string    `bun:"email,nullzero" json:"email,omitempty"`
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
