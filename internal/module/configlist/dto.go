package configlist

import "time"

// ConfigListRequest is the input for creating or updating a config list.
// Values replace the list's current values.
type ConfigListRequest struct {
	ListCode    string               `json:"listCode" binding:"required,max=50"`
	Name        string               `json:"name" binding:"required,max=200"`
	Description string               `json:"description" binding:"max=1000"`
	Metadata    map[string]any       `json:"metadata"`
	Values      []ConfigValueRequest `json:"values" binding:"omitempty,dive"`
	IsActive    *bool                `json:"isActive"`
}

// ConfigValueRequest is one entry of a config list.
type ConfigValueRequest struct {
	ValueCode   string `json:"valueCode" binding:"required,max=50"`
	DisplayName string `json:"displayName" binding:"required,max=200"`
	SortOrder   *int   `json:"sortOrder"`
	IsActive    *bool  `json:"isActive"`
}

// ConfigListResponse is the API representation of a config list. Values are
// only present on single-record reads.
type ConfigListResponse struct {
	ID          uint                  `json:"id"`
	ListCode    string                `json:"listCode"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Metadata    map[string]any        `json:"metadata"`
	IsActive    bool                  `json:"isActive"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   *time.Time            `json:"updatedAt"`
	CreatedBy   *uint                 `json:"createdBy"`
	UpdatedBy   *uint                 `json:"updatedBy"`
	Values      []ConfigValueResponse `json:"values,omitempty"`
}

// ConfigValueResponse is the API representation of a config list value.
type ConfigValueResponse struct {
	ID          uint   `json:"id"`
	ValueCode   string `json:"valueCode"`
	DisplayName string `json:"displayName"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
}
