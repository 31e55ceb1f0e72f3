package user

import "time"

// CreateUserRequest represents the input for creating a new user.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	IsActive *bool  `json:"isActive"`
}

// UpdateUserRequest represents the input for updating an existing user. An
// empty password keeps the current one.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
	IsActive *bool  `json:"isActive"`
}

// RolesRequest replaces a user's role set.
type RolesRequest struct {
	RoleIDs []uint `json:"roleIds"`
}

// UserResponse is the public representation of a user. Password hashes are
// never exposed.
type UserResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	CreatedBy *uint      `json:"createdBy"`
	UpdatedBy *uint      `json:"updatedBy"`
	Roles     []RoleRef  `json:"roles,omitempty"`
}

// RoleRef identifies a role assigned to a user.
type RoleRef struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
