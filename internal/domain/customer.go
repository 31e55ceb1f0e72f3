package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer types.
const (
	CustomerTypeRetail      = "RETAIL"
	CustomerTypeWholesale   = "WHOLESALE"
	CustomerTypeDistributor = "DISTRIBUTOR"
	CustomerTypeEnterprise  = "ENTERPRISE"
)

// Customer is a customer master record. Addresses and BankDetails are only
// loaded for single-record reads.
type Customer struct {
	AuditedEntity
	CustomerCode string               `gorm:"size:50;not null;uniqueIndex:uk_customers_code,where:is_deleted = false" json:"customerCode"`
	Name         string               `gorm:"size:200;not null" json:"name"`
	CustomerType string               `gorm:"size:20;not null;index" json:"customerType"`
	Email        string               `gorm:"size:255" json:"email"`
	Phone        string               `gorm:"size:30" json:"phone"`
	City         string               `gorm:"size:100;index" json:"city"`
	Country      string               `gorm:"size:100" json:"country"`
	TaxNumber    string               `gorm:"size:50" json:"taxNumber"`
	CreditLimit  decimal.Decimal      `gorm:"type:numeric(18,2);not null" json:"creditLimit"`
	Addresses    []CustomerAddress    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	BankDetails  []CustomerBankDetail `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"bankDetails,omitempty"`
}

// NaturalKey returns the customer code.
func (c *Customer) NaturalKey() string { return c.CustomerCode }

// CustomerAddress is a postal address owned by a customer.
type CustomerAddress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"not null;index" json:"customerId"`
	AddressType string    `gorm:"size:20;not null" json:"addressType"`
	Line1       string    `gorm:"size:255;not null" json:"line1"`
	Line2       string    `gorm:"size:255" json:"line2"`
	City        string    `gorm:"size:100" json:"city"`
	State       string    `gorm:"size:100" json:"state"`
	PostalCode  string    `gorm:"size:20" json:"postalCode"`
	Country     string    `gorm:"size:100" json:"country"`
	IsPrimary   bool      `gorm:"not null" json:"isPrimary"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CustomerBankDetail is a bank account owned by a customer.
type CustomerBankDetail struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CustomerID    uint      `gorm:"not null;index" json:"customerId"`
	BankName      string    `gorm:"size:200;not null" json:"bankName"`
	AccountName   string    `gorm:"size:200;not null" json:"accountName"`
	AccountNumber string    `gorm:"size:50;not null" json:"accountNumber"`
	SwiftCode     string    `gorm:"size:20" json:"swiftCode"`
	IsPrimary     bool      `gorm:"not null" json:"isPrimary"`
	CreatedAt     time.Time `json:"createdAt"`
}
