package domain

import "gorm.io/datatypes"

// ConfigList is a named lookup list (for example HSN_TYPE or PAYMENT_TERMS)
// holding an ordered set of values. Lookup tables are hard-deleted.
type ConfigList struct {
	AuditedEntity
	ListCode    string            `gorm:"size:50;not null;uniqueIndex:uk_config_lists_code" json:"listCode"`
	Name        string            `gorm:"size:200;not null" json:"name"`
	Description string            `gorm:"size:1000" json:"description"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	Values      []ConfigValue     `gorm:"foreignKey:ConfigListID;constraint:OnDelete:CASCADE" json:"values,omitempty"`
}

// NaturalKey returns the list code.
func (c *ConfigList) NaturalKey() string { return c.ListCode }

// ConfigValue is one entry of a ConfigList.
type ConfigValue struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ConfigListID uint   `gorm:"not null;index" json:"configListId"`
	ValueCode    string `gorm:"size:50;not null" json:"valueCode"`
	DisplayName  string `gorm:"size:200;not null" json:"displayName"`
	SortOrder    int    `gorm:"not null" json:"sortOrder"`
	IsActive     bool   `gorm:"not null" json:"isActive"`
}
