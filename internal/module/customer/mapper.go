package customer

import (
	"strings"

	"github.com/simp-lee/backoffice/internal/domain"
)

// Mapper converts customer requests and records.
type Mapper struct{}

// FromCreate builds a new active customer from in.
func (m Mapper) FromCreate(in CustomerRequest) (*domain.Customer, error) {
	c := &domain.Customer{}
	c.IsActive = true
	if err := m.ApplyUpdate(c, in); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyUpdate copies the header fields of in onto c.
func (Mapper) ApplyUpdate(c *domain.Customer, in CustomerRequest) error {
	if in.CreditLimit.IsNegative() {
		return domain.NewAppError(domain.CodeValidation, "creditLimit must not be negative", nil)
	}
	c.CustomerCode = strings.TrimSpace(in.CustomerCode)
	c.Name = strings.TrimSpace(in.Name)
	c.CustomerType = in.CustomerType
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.City = strings.TrimSpace(in.City)
	c.Country = strings.TrimSpace(in.Country)
	c.TaxNumber = strings.TrimSpace(in.TaxNumber)
	c.CreditLimit = in.CreditLimit.Round(2)
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts c to its API representation.
func (Mapper) ToDTO(c *domain.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:           c.ID,
		CustomerCode: c.CustomerCode,
		Name:         c.Name,
		CustomerType: c.CustomerType,
		Email:        c.Email,
		Phone:        c.Phone,
		City:         c.City,
		Country:      c.Country,
		TaxNumber:    c.TaxNumber,
		CreditLimit:  c.CreditLimit,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		CreatedBy:    c.CreatedBy,
		UpdatedBy:    c.UpdatedBy,
	}
	for _, a := range c.Addresses {
		resp.Addresses = append(resp.Addresses, AddressResponse{
			ID:          a.ID,
			AddressType: a.AddressType,
			Line1:       a.Line1,
			Line2:       a.Line2,
			City:        a.City,
			State:       a.State,
			PostalCode:  a.PostalCode,
			Country:     a.Country,
			IsPrimary:   a.IsPrimary,
		})
	}
	for _, b := range c.BankDetails {
		resp.BankDetails = append(resp.BankDetails, BankDetailResponse{
			ID:            b.ID,
			BankName:      b.BankName,
			AccountName:   b.AccountName,
			AccountNumber: b.AccountNumber,
			SwiftCode:     b.SwiftCode,
			IsPrimary:     b.IsPrimary,
		})
	}
	return resp
}

// children converts the child collections of in to records, enforcing at
// most one primary entry per collection.
func children(in FullCustomerRequest) ([]domain.CustomerAddress, []domain.CustomerBankDetail, error) {
	var addresses []domain.CustomerAddress
	primaries := 0
	for _, a := range in.Addresses {
		if a.IsPrimary {
			primaries++
		}
		addresses = append(addresses, domain.CustomerAddress{
			AddressType: a.AddressType,
			Line1:       strings.TrimSpace(a.Line1),
			Line2:       strings.TrimSpace(a.Line2),
			City:        strings.TrimSpace(a.City),
			State:       strings.TrimSpace(a.State),
			PostalCode:  strings.TrimSpace(a.PostalCode),
			Country:     strings.TrimSpace(a.Country),
			IsPrimary:   a.IsPrimary,
		})
	}
	if primaries > 1 {
		return nil, nil, domain.NewAppError(domain.CodeValidation, "only one address may be primary", nil)
	}

	var banks []domain.CustomerBankDetail
	primaries = 0
	for _, b := range in.BankDetails {
		if b.IsPrimary {
			primaries++
		}
		banks = append(banks, domain.CustomerBankDetail{
			BankName:      strings.TrimSpace(b.BankName),
			AccountName:   strings.TrimSpace(b.AccountName),
			AccountNumber: strings.TrimSpace(b.AccountNumber),
			SwiftCode:     strings.ToUpper(strings.TrimSpace(b.SwiftCode)),
			IsPrimary:     b.IsPrimary,
		})
	}
	if primaries > 1 {
		return nil, nil, domain.NewAppError(domain.CodeValidation, "only one bank detail may be primary", nil)
	}
	return addresses, banks, nil
}
