package item

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest is the input for creating or updating an item.
type ItemRequest struct {
	ItemCode    string          `json:"itemCode" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=1000"`
	Category    string          `json:"category" binding:"max=100"`
	UOM         string          `json:"uom" binding:"required,max=20"`
	HSNCode     string          `json:"hsnCode" binding:"max=20"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	IsActive    *bool           `json:"isActive"`
}

// ItemResponse is the API representation of an item.
type ItemResponse struct {
	ID          uint            `json:"id"`
	ItemCode    string          `json:"itemCode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	UOM         string          `json:"uom"`
	HSNCode     string          `json:"hsnCode"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt"`
	CreatedBy   *uint           `json:"createdBy"`
	UpdatedBy   *uint           `json:"updatedBy"`
}
