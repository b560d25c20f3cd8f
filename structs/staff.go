package structs

type TableRequest struct {
	TableNumber string `json:"table_number" validate:"required,max=10"`
	Capacity    int    `json:"capacity" validate:"gt=0"`
	IsActive    *bool  `json:"is_active"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest replaces the profile. A non-empty Password resets it.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"omitempty,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"required"`
}
