package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the approval state of a sales order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

// orderTransitions lists every allowed status change. Approved and Rejected
// are terminal and have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:     {OrderStatusSubmitted},
	OrderStatusSubmitted: {OrderStatusApproved, OrderStatusRejected},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved, OrderStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// ValidateTransition returns ErrInvalidTransition unless from -> to is an
// allowed edge of the order workflow.
func ValidateTransition(from, to OrderStatus) error {
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return NewAppError(CodeInvalidTransition,
		fmt.Sprintf("cannot move sales order from %s to %s", from, to), nil)
}

// SalesOrder is a customer order with its line items.
type SalesOrder struct {
	AuditedEntity
	OrderNumber     string           `gorm:"size:50;not null;uniqueIndex:uk_sales_orders_number,where:is_deleted = false" json:"orderNumber"`
	CustomerID      uint             `gorm:"not null;index" json:"customerId"`
	OrderDate       time.Time        `gorm:"not null" json:"orderDate"`
	Status          OrderStatus      `gorm:"size:20;not null;index" json:"status"`
	Currency        string           `gorm:"size:3;not null" json:"currency"`
	Notes           string           `gorm:"size:1000" json:"notes"`
	TotalAmount     decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"totalAmount"`
	SubmittedAt     *time.Time       `json:"submittedAt"`
	DecidedAt       *time.Time       `json:"decidedAt"`
	DecidedBy       *uint            `json:"decidedBy"`
	RejectionReason string           `gorm:"size:500" json:"rejectionReason"`
	Lines           []SalesOrderLine `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// NaturalKey returns the order number.
func (o *SalesOrder) NaturalKey() string { return o.OrderNumber }

// Recalculate numbers the lines, computes line totals, and sums the order total.
func (o *SalesOrder) Recalculate() {
	total := decimal.Zero
	for i := range o.Lines {
		line := &o.Lines[i]
		line.LineNo = i + 1
		line.LineTotal = line.Quantity.Mul(line.UnitPrice).Round(2)
		total = total.Add(line.LineTotal)
	}
	o.TotalAmount = total
}

// SalesOrderLine is one line item of a sales order.
type SalesOrderLine struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SalesOrderID uint            `gorm:"not null;index" json:"salesOrderId"`
	LineNo       int             `gorm:"not null" json:"lineNo"`
	ItemID       uint            `gorm:"not null;index" json:"itemId"`
	Description  string          `gorm:"size:500" json:"description"`
	Quantity     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unitPrice"`
	LineTotal    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"lineTotal"`
}
