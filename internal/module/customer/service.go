package customer

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Spec describes how customers are queried and stored.
var Spec = crud.Spec{
	Name:          "customer",
	Resource:      "customers",
	KeyColumn:     "customer_code",
	KeyField:      "customerCode",
	SearchColumns: []string{"customer_code", "name", "email", "city"},
	EqualFilters: map[string]string{
		"customerType": "customer_type",
		"city":         "city",
		"country":      "country",
	},
	RangeFilters: map[string]string{"creditLimit": "credit_limit"},
	SortFields: map[string]string{
		"name":         "name",
		"customerType": "customer_type",
		"city":         "city",
		"creditLimit":  "credit_limit",
	},
	Delete:   crud.SoftDelete,
	Preloads: []string{"Addresses", "BankDetails"},
}

type (
	repository  = crud.Repository[domain.Customer, *domain.Customer]
	baseService = crud.Service[domain.Customer, *domain.Customer, CustomerRequest, CustomerRequest, CustomerResponse]
)

// Service adds the transactional aggregate save to the generic customer service.
type Service struct {
	*baseService
	repo *repository
}

// NewService creates a customer service over repo.
func NewService(repo *repository) *Service {
	return &Service{baseService: bind(repo), repo: repo}
}

func bind(repo *repository) *baseService {
	return crud.NewService[domain.Customer, *domain.Customer, CustomerRequest, CustomerRequest, CustomerResponse](repo, Mapper{}, Spec)
}

// CreateFull inserts a customer and its addresses and bank details in one
// transaction.
func (s *Service) CreateFull(ctx context.Context, in FullCustomerRequest, actingUserID uint) (CustomerResponse, error) {
	addresses, banks, err := children(in)
	if err != nil {
		return CustomerResponse{}, err
	}

	var created *domain.Customer
	err = pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		svc := bind(txRepo)

		entity, err := svc.Prepare(ctx, in.CustomerRequest, actingUserID)
		if err != nil {
			return err
		}
		entity.Addresses = addresses
		entity.BankDetails = banks
		if err := txRepo.Create(ctx, entity); err != nil {
			return svc.Translate(ctx, "create", err)
		}
		created = entity
		return nil
	})
	if err != nil {
		return CustomerResponse{}, s.txError(ctx, "create", err)
	}
	return s.ToDTO(created), nil
}

// UpdateFull updates a customer and replaces its child collections in one
// transaction.
func (s *Service) UpdateFull(ctx context.Context, id uint, in FullCustomerRequest, actingUserID uint) (CustomerResponse, error) {
	addresses, banks, err := children(in)
	if err != nil {
		return CustomerResponse{}, err
	}

	var saved *domain.Customer
	err = pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		svc := bind(txRepo)

		entity, err := svc.Apply(ctx, id, in.CustomerRequest, actingUserID)
		if err != nil {
			return err
		}
		if err := txRepo.Update(ctx, entity); err != nil {
			return svc.Translate(ctx, "update", err)
		}
		if err := replaceChildren(ctx, tx, id, addresses, banks); err != nil {
			return svc.Translate(ctx, "update", crud.MapError(Spec.Name, err))
		}

		saved, err = txRepo.GetByID(ctx, id)
		if err != nil {
			return svc.Translate(ctx, "load", err)
		}
		return nil
	})
	if err != nil {
		return CustomerResponse{}, s.txError(ctx, "update", err)
	}
	return s.ToDTO(saved), nil
}

// txError translates failures of the transaction itself. Errors raised
// inside the callback are already translated.
func (s *Service) txError(ctx context.Context, op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return s.Translate(ctx, op, crud.MapError(Spec.Name, err))
}

func replaceChildren(ctx context.Context, tx *gorm.DB, customerID uint, addresses []domain.CustomerAddress, banks []domain.CustomerBankDetail) error {
	db := tx.WithContext(ctx)
	if err := db.Where("customer_id = ?", customerID).Delete(&domain.CustomerAddress{}).Error; err != nil {
		return err
	}
	if err := db.Where("customer_id = ?", customerID).Delete(&domain.CustomerBankDetail{}).Error; err != nil {
		return err
	}
	for i := range addresses {
		addresses[i].CustomerID = customerID
	}
	for i := range banks {
		banks[i].CustomerID = customerID
	}
	if len(addresses) > 0 {
		if err := db.Create(&addresses).Error; err != nil {
			return err
		}
	}
	if len(banks) > 0 {
		if err := db.Create(&banks).Error; err != nil {
			return err
		}
	}
	return nil
}
