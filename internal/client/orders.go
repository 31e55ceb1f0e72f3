package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/simp-lee/backoffice/internal/module/salesorder"
)

// OrderAction names a sales order workflow step.
type OrderAction string

const (
	ActionSubmit  OrderAction = "submit"
	ActionApprove OrderAction = "approve"
	ActionReject  OrderAction = "reject"
)

// SalesOrders returns the typed sales order resource.
func (c *Client) SalesOrders() *Resource[salesorder.SalesOrderResponse] {
	return NewResource[salesorder.SalesOrderResponse](c, "sales-orders")
}

// Submit moves a draft order to SUBMITTED.
func (c *Client) Submit(ctx context.Context, id uint) (salesorder.SalesOrderResponse, error) {
	return c.Transition(ctx, id, ActionSubmit, "")
}

// Approve moves a submitted order to APPROVED.
func (c *Client) Approve(ctx context.Context, id uint) (salesorder.SalesOrderResponse, error) {
	return c.Transition(ctx, id, ActionApprove, "")
}

// Reject moves a submitted order to REJECTED with a reason.
func (c *Client) Reject(ctx context.Context, id uint, reason string) (salesorder.SalesOrderResponse, error) {
	return c.Transition(ctx, id, ActionReject, reason)
}

// Transition runs a workflow action. reason is only sent for rejections.
func (c *Client) Transition(ctx context.Context, id uint, action OrderAction, reason string) (salesorder.SalesOrderResponse, error) {
	var body any
	switch action {
	case ActionSubmit, ActionApprove:
	case ActionReject:
		body = salesorder.RejectRequest{Reason: reason}
	default:
		return salesorder.SalesOrderResponse{}, fmt.Errorf("unknown order action %q", action)
	}
	return do[salesorder.SalesOrderResponse](ctx, c, http.MethodPost,
		fmt.Sprintf("/sales-orders/%d/%s", id, action), nil, body)
}
