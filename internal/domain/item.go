package domain

import "github.com/shopspring/decimal"

// ItemMaster is a sellable or stocked item.
type ItemMaster struct {
	AuditedEntity
	ItemCode    string          `gorm:"size:50;not null;uniqueIndex:uk_item_masters_code,where:is_deleted = false" json:"itemCode"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"size:1000" json:"description"`
	Category    string          `gorm:"size:100;index" json:"category"`
	UOM         string          `gorm:"column:uom;size:20;not null" json:"uom"`
	HSNCode     string          `gorm:"column:hsn_code;size:20" json:"hsnCode"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unitPrice"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(6,3);not null" json:"taxRate"`
}

// NaturalKey returns the item code.
func (i *ItemMaster) NaturalKey() string { return i.ItemCode }
