package app

import (
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/domain"
)

// models lists every persisted record. Join tables for roles and
// permissions are created from the many2many tags.
func models() []any {
	return []any{
		&domain.User{},
		&domain.Role{},
		&domain.Permission{},
		&domain.Customer{},
		&domain.CustomerAddress{},
		&domain.CustomerBankDetail{},
		&domain.ItemMaster{},
		&domain.Organization{},
		&domain.Division{},
		&domain.ConfigList{},
		&domain.ConfigValue{},
		&domain.SalesOrder{},
		&domain.SalesOrderLine{},
	}
}

// Migrate creates or updates the schema for all records.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}
