package role

import "time"

// RoleRequest is the input for creating or updating a role.
type RoleRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	IsActive    *bool  `json:"isActive"`
}

// PermissionsRequest replaces a role's permission set. An empty list
// revokes everything.
type PermissionsRequest struct {
	PermissionIDs []uint `json:"permissionIds"`
}

// RoleResponse is the API representation of a role.
type RoleResponse struct {
	ID          uint                 `json:"id"`
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"isActive"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   *time.Time           `json:"updatedAt"`
	CreatedBy   *uint                `json:"createdBy"`
	UpdatedBy   *uint                `json:"updatedBy"`
	Permissions []PermissionResponse `json:"permissions,omitempty"`
}

// PermissionRequest is the input for a permission. The code is derived
// from resource and action.
type PermissionRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Resource string `json:"resource" binding:"required,max=50"`
	Action   string `json:"action" binding:"required,max=20"`
	IsActive *bool  `json:"isActive"`
}

// PermissionResponse is the API representation of a permission.
type PermissionResponse struct {
	ID        uint       `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Resource  string     `json:"resource"`
	Action    string     `json:"action"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}
