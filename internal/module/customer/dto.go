package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest is the input for creating or updating a customer header.
type CustomerRequest struct {
	CustomerCode string          `json:"customerCode" binding:"required,max=50"`
	Name         string          `json:"name" binding:"required,max=200"`
	CustomerType string          `json:"customerType" binding:"required,oneof=RETAIL WHOLESALE DISTRIBUTOR ENTERPRISE"`
	Email        string          `json:"email" binding:"omitempty,email,max=255"`
	Phone        string          `json:"phone" binding:"max=30"`
	City         string          `json:"city" binding:"max=100"`
	Country      string          `json:"country" binding:"max=100"`
	TaxNumber    string          `json:"taxNumber" binding:"max=50"`
	CreditLimit  decimal.Decimal `json:"creditLimit"`
	IsActive     *bool           `json:"isActive"`
}

// AddressRequest is one address in a full customer save.
type AddressRequest struct {
	AddressType string `json:"addressType" binding:"required,oneof=BILLING SHIPPING OFFICE"`
	Line1       string `json:"line1" binding:"required,max=255"`
	Line2       string `json:"line2" binding:"max=255"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"max=100"`
	PostalCode  string `json:"postalCode" binding:"max=20"`
	Country     string `json:"country" binding:"max=100"`
	IsPrimary   bool   `json:"isPrimary"`
}

// BankDetailRequest is one bank account in a full customer save.
type BankDetailRequest struct {
	BankName      string `json:"bankName" binding:"required,max=200"`
	AccountName   string `json:"accountName" binding:"required,max=200"`
	AccountNumber string `json:"accountNumber" binding:"required,max=50"`
	SwiftCode     string `json:"swiftCode" binding:"max=20"`
	IsPrimary     bool   `json:"isPrimary"`
}

// FullCustomerRequest saves a customer together with its child collections.
// The child slices replace whatever the customer held before.
type FullCustomerRequest struct {
	CustomerRequest
	Addresses   []AddressRequest    `json:"addresses" binding:"omitempty,dive"`
	BankDetails []BankDetailRequest `json:"bankDetails" binding:"omitempty,dive"`
}

// CustomerResponse is the API representation of a customer. Child
// collections are only present on single-record reads.
type CustomerResponse struct {
	ID           uint                 `json:"id"`
	CustomerCode string               `json:"customerCode"`
	Name         string               `json:"name"`
	CustomerType string               `json:"customerType"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	City         string               `json:"city"`
	Country      string               `json:"country"`
	TaxNumber    string               `json:"taxNumber"`
	CreditLimit  decimal.Decimal      `json:"creditLimit"`
	IsActive     bool                 `json:"isActive"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    *time.Time           `json:"updatedAt"`
	CreatedBy    *uint                `json:"createdBy"`
	UpdatedBy    *uint                `json:"updatedBy"`
	Addresses    []AddressResponse    `json:"addresses,omitempty"`
	BankDetails  []BankDetailResponse `json:"bankDetails,omitempty"`
}

// AddressResponse is the API representation of a customer address.
type AddressResponse struct {
	ID          uint   `json:"id"`
	AddressType string `json:"addressType"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
	IsPrimary   bool   `json:"isPrimary"`
}

// BankDetailResponse is the API representation of a customer bank account.
type BankDetailResponse struct {
	ID            uint   `json:"id"`
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	SwiftCode     string `json:"swiftCode"`
	IsPrimary     bool   `json:"isPrimary"`
}
