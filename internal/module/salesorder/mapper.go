package salesorder

import (
	"fmt"
	"strings"
	"time"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Mapper converts sales order requests and records.
type Mapper struct {
	Clock pkg.Clock
}

// FromCreate builds a new draft order from in.
func (m Mapper) FromCreate(in SalesOrderRequest) (*domain.SalesOrder, error) {
	o := &domain.SalesOrder{Status: domain.OrderStatusDraft}
	o.IsActive = true
	if err := m.ApplyUpdate(o, in); err != nil {
		return nil, err
	}
	return o, nil
}

// ApplyUpdate copies in onto o and recomputes the totals. Only drafts can
// be edited.
func (m Mapper) ApplyUpdate(o *domain.SalesOrder, in SalesOrderRequest) error {
	if o.Status != domain.OrderStatusDraft {
		return domain.NewAppError(domain.CodeInvalidTransition,
			fmt.Sprintf("sales order is %s; only drafts can be edited", o.Status), nil)
	}
	if len(in.Lines) == 0 {
		return domain.NewAppError(domain.CodeValidation, "sales order needs at least one line", nil)
	}

	lines := make([]domain.SalesOrderLine, 0, len(in.Lines))
	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("line %d: quantity must be positive", i+1), nil)
		}
		if l.UnitPrice.IsNegative() {
			return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("line %d: unitPrice must not be negative", i+1), nil)
		}
		lines = append(lines, domain.SalesOrderLine{
			ItemID:      l.ItemID,
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	o.OrderNumber = strings.TrimSpace(in.OrderNumber)
	o.CustomerID = in.CustomerID
	o.Currency = strings.ToUpper(in.Currency)
	o.Notes = strings.TrimSpace(in.Notes)
	switch {
	case in.OrderDate != nil:
		o.OrderDate = in.OrderDate.UTC()
	case o.OrderDate.IsZero():
		o.OrderDate = m.now()
	}
	o.Lines = lines
	o.Recalculate()
	return nil
}

// ToDTO converts o to its API representation.
func (Mapper) ToDTO(o *domain.SalesOrder) SalesOrderResponse {
	resp := SalesOrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		Currency:        o.Currency,
		Notes:           o.Notes,
		TotalAmount:     o.TotalAmount,
		SubmittedAt:     o.SubmittedAt,
		DecidedAt:       o.DecidedAt,
		DecidedBy:       o.DecidedBy,
		RejectionReason: o.RejectionReason,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		CreatedBy:       o.CreatedBy,
		UpdatedBy:       o.UpdatedBy,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			ID:          l.ID,
			LineNo:      l.LineNo,
			ItemID:      l.ItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return resp
}

func (m Mapper) now() time.Time {
	if m.Clock == nil {
		return pkg.SystemClock{}.Now()
	}
	return m.Clock.Now()
}
