package structs

import "github.com/shopspring/decimal"

type MenuItemRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	CategoryID      int64           `json:"category_id" validate:"required"`
	Description     string          `json:"description" validate:"max=500"`
	Price           decimal.Decimal `json:"price"`
	IsAvailable     *bool           `json:"is_available"`
	ImagePath       string          `json:"image_path" validate:"max=255"`
	PreparationTime int             `json:"preparation_time"` // minutes
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type ActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
