package salesorder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Spec describes how sales orders are queried and stored.
var Spec = crud.Spec{
	Name:          "sales order",
	Resource:      "sales-orders",
	KeyColumn:     "order_number",
	KeyField:      "orderNumber",
	SearchColumns: []string{"order_number", "notes"},
	EqualFilters: map[string]string{
		"status":   "status",
		"currency": "currency",
	},
	IntFilters:   map[string]string{"customerId": "customer_id"},
	RangeFilters: map[string]string{"totalAmount": "total_amount"},
	SortFields: map[string]string{
		"orderDate":   "order_date",
		"status":      "status",
		"totalAmount": "total_amount",
		"customerId":  "customer_id",
	},
	Delete:   crud.SoftDelete,
	Preloads: []string{"Lines"},
}

type (
	repository  = crud.Repository[domain.SalesOrder, *domain.SalesOrder]
	baseService = crud.Service[domain.SalesOrder, *domain.SalesOrder, SalesOrderRequest, SalesOrderRequest, SalesOrderResponse]
)

// Service saves orders with their lines in one transaction and drives the
// approval workflow.
type Service struct {
	*baseService
	repo      *repository
	mapper    Mapper
	customers domain.Repository[domain.Customer]
	items     domain.Repository[domain.ItemMaster]
}

// NewService creates a sales order service. customers and items are used to
// check the references of every saved order.
func NewService(repo *repository, customers domain.Repository[domain.Customer], items domain.Repository[domain.ItemMaster]) *Service {
	m := Mapper{Clock: repo.Clock()}
	return &Service{
		baseService: bind(repo, m),
		repo:        repo,
		mapper:      m,
		customers:   customers,
		items:       items,
	}
}

func bind(repo *repository, m Mapper) *baseService {
	return crud.NewService[domain.SalesOrder, *domain.SalesOrder, SalesOrderRequest, SalesOrderRequest, SalesOrderResponse](repo, m, Spec)
}

// Create inserts a draft order and its lines.
func (s *Service) Create(ctx context.Context, in SalesOrderRequest, actingUserID uint) (SalesOrderResponse, error) {
	if err := s.checkReferences(ctx, in); err != nil {
		return SalesOrderResponse{}, err
	}

	var created *domain.SalesOrder
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		svc := bind(txRepo, s.mapper)

		order, err := svc.Prepare(ctx, in, actingUserID)
		if err != nil {
			return err
		}
		if err := txRepo.Create(ctx, order); err != nil {
			return svc.Translate(ctx, "create", err)
		}
		created = order
		return nil
	})
	if err != nil {
		return SalesOrderResponse{}, s.txError(ctx, "create", err)
	}
	return s.ToDTO(created), nil
}

// Update edits a draft order and replaces its lines.
func (s *Service) Update(ctx context.Context, id uint, in SalesOrderRequest, actingUserID uint) (SalesOrderResponse, error) {
	if err := s.checkReferences(ctx, in); err != nil {
		return SalesOrderResponse{}, err
	}

	var saved *domain.SalesOrder
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		svc := bind(txRepo, s.mapper)

		order, err := svc.Apply(ctx, id, in, actingUserID)
		if err != nil {
			return err
		}
		if err := txRepo.Update(ctx, order); err != nil {
			return svc.Translate(ctx, "update", err)
		}
		if err := replaceLines(ctx, tx, id, order.Lines); err != nil {
			return svc.Translate(ctx, "update", crud.MapError(Spec.Name, err))
		}

		saved, err = txRepo.GetByID(ctx, id)
		if err != nil {
			return svc.Translate(ctx, "load", err)
		}
		return nil
	})
	if err != nil {
		return SalesOrderResponse{}, s.txError(ctx, "update", err)
	}
	return s.ToDTO(saved), nil
}

// Delete soft-deletes a draft order. Orders that entered the workflow are kept.
func (s *Service) Delete(ctx context.Context, id uint, actingUserID uint) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.Translate(ctx, "load", err)
	}
	if order == nil {
		return errNotFound
	}
	if order.Status != domain.OrderStatusDraft {
		return domain.NewAppError(domain.CodeConflict,
			fmt.Sprintf("sales order is %s; only drafts can be deleted", order.Status), nil)
	}
	return s.baseService.Delete(ctx, id, actingUserID)
}

// Submit moves a draft to Submitted.
func (s *Service) Submit(ctx context.Context, id uint, actingUserID uint) (SalesOrderResponse, error) {
	return s.transition(ctx, id, domain.OrderStatusSubmitted, actingUserID, "")
}

// Approve moves a submitted order to Approved.
func (s *Service) Approve(ctx context.Context, id uint, actingUserID uint) (SalesOrderResponse, error) {
	return s.transition(ctx, id, domain.OrderStatusApproved, actingUserID, "")
}

// Reject moves a submitted order to Rejected and records the reason.
func (s *Service) Reject(ctx context.Context, id uint, reason string, actingUserID uint) (SalesOrderResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return SalesOrderResponse{}, domain.NewAppError(domain.CodeValidation, "reason is required", nil)
	}
	return s.transition(ctx, id, domain.OrderStatusRejected, actingUserID, reason)
}

// transition applies one workflow step. The status update is conditional on
// the status that was read, so concurrent steps cannot both succeed.
func (s *Service) transition(ctx context.Context, id uint, to domain.OrderStatus, actingUserID uint, reason string) (SalesOrderResponse, error) {
	var saved *domain.SalesOrder
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return s.Translate(ctx, "load", err)
		}
		if order == nil {
			return errNotFound
		}
		if err := domain.ValidateTransition(order.Status, to); err != nil {
			return err
		}

		now := s.repo.Clock().Now()
		actor := crud.ActorRef(actingUserID)
		updates := map[string]any{
			"status":     string(to),
			"updated_at": now,
			"updated_by": actor,
		}
		switch to {
		case domain.OrderStatusSubmitted:
			updates["submitted_at"] = now
		case domain.OrderStatusApproved, domain.OrderStatusRejected:
			updates["decided_at"] = now
			updates["decided_by"] = actor
			updates["rejection_reason"] = reason
		}

		result := tx.WithContext(ctx).Model(&domain.SalesOrder{}).
			Where("id = ? AND status = ? AND is_deleted = ?", id, order.Status, false).
			Updates(updates)
		if result.Error != nil {
			return s.Translate(ctx, "update", crud.MapError(Spec.Name, result.Error))
		}
		if result.RowsAffected == 0 {
			return domain.NewAppError(domain.CodeInvalidTransition, "sales order was changed by another request", nil)
		}

		saved, err = txRepo.GetByID(ctx, id)
		if err != nil {
			return s.Translate(ctx, "load", err)
		}
		return nil
	})
	if err != nil {
		return SalesOrderResponse{}, s.txError(ctx, "update", err)
	}
	return s.ToDTO(saved), nil
}

// checkReferences runs before the transaction opens; it reads through the
// shared pool.
func (s *Service) checkReferences(ctx context.Context, in SalesOrderRequest) error {
	if s.customers != nil && in.CustomerID != 0 {
		ok, err := s.customers.Exists(ctx, in.CustomerID)
		if err != nil {
			return s.Translate(ctx, "check", err)
		}
		if !ok {
			return domain.NewAppError(domain.CodeValidation,
				fmt.Sprintf("customer %d does not exist", in.CustomerID), nil)
		}
	}
	if s.items == nil {
		return nil
	}
	seen := make(map[uint]bool, len(in.Lines))
	for i, l := range in.Lines {
		if l.ItemID == 0 || seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		ok, err := s.items.Exists(ctx, l.ItemID)
		if err != nil {
			return s.Translate(ctx, "check", err)
		}
		if !ok {
			return domain.NewAppError(domain.CodeValidation,
				fmt.Sprintf("line %d: item %d does not exist", i+1, l.ItemID), nil)
		}
	}
	return nil
}

func (s *Service) txError(ctx context.Context, op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return s.Translate(ctx, op, crud.MapError(Spec.Name, err))
}

var errNotFound = domain.NewAppError(domain.CodeNotFound, Spec.Name+" not found", nil)

func replaceLines(ctx context.Context, tx *gorm.DB, orderID uint, lines []domain.SalesOrderLine) error {
	db := tx.WithContext(ctx)
	if err := db.Where("sales_order_id = ?", orderID).Delete(&domain.SalesOrderLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].SalesOrderID = orderID
	}
	return db.Create(&lines).Error
}
