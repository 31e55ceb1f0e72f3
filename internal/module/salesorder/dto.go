package salesorder

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/backoffice/internal/domain"
)

// SalesOrderRequest is the input for creating or editing a draft order.
// Lines replace the order's current lines.
type SalesOrderRequest struct {
	OrderNumber string        `json:"orderNumber" binding:"required,max=50"`
	CustomerID  uint          `json:"customerId" binding:"required"`
	OrderDate   *time.Time    `json:"orderDate"`
	Currency    string        `json:"currency" binding:"required,len=3"`
	Notes       string        `json:"notes" binding:"max=1000"`
	Lines       []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// LineRequest is one order line.
type LineRequest struct {
	ItemID      uint            `json:"itemId" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// RejectRequest carries the reason for rejecting an order.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SalesOrderResponse is the API representation of a sales order. Lines are
// only present on single-record reads.
type SalesOrderResponse struct {
	ID              uint               `json:"id"`
	OrderNumber     string             `json:"orderNumber"`
	CustomerID      uint               `json:"customerId"`
	OrderDate       time.Time          `json:"orderDate"`
	Status          domain.OrderStatus `json:"status"`
	Currency        string             `json:"currency"`
	Notes           string             `json:"notes"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	SubmittedAt     *time.Time         `json:"submittedAt"`
	DecidedAt       *time.Time         `json:"decidedAt"`
	DecidedBy       *uint              `json:"decidedBy"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       *time.Time         `json:"updatedAt"`
	CreatedBy       *uint              `json:"createdBy"`
	UpdatedBy       *uint              `json:"updatedBy"`
	Lines           []LineResponse     `json:"lines,omitempty"`
}

// LineResponse is the API representation of an order line.
type LineResponse struct {
	ID          uint            `json:"id"`
	LineNo      int             `json:"lineNo"`
	ItemID      uint            `json:"itemId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}
