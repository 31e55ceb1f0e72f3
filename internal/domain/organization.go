package domain

// Organization is a legal entity the back office operates for.
type Organization struct {
	AuditedEntity
	OrgCode   string `gorm:"size:50;not null;uniqueIndex:uk_organizations_code,where:is_deleted = false" json:"orgCode"`
	Name      string `gorm:"size:200;not null" json:"name"`
	LegalName string `gorm:"size:255" json:"legalName"`
	TaxNumber string `gorm:"size:50" json:"taxNumber"`
	Country   string `gorm:"size:100;index" json:"country"`
	Email     string `gorm:"size:255" json:"email"`
	Phone     string `gorm:"size:30" json:"phone"`
}

// NaturalKey returns the organization code.
func (o *Organization) NaturalKey() string { return o.OrgCode }

// Division is a lookup of business divisions within an organization.
// It carries the same audit columns as other records but is hard-deleted.
type Division struct {
	AuditedEntity
	DivisionCode   string `gorm:"size:50;not null;uniqueIndex:uk_divisions_code" json:"divisionCode"`
	Name           string `gorm:"size:200;not null" json:"name"`
	OrganizationID uint   `gorm:"not null;index" json:"organizationId"`
}

// NaturalKey returns the division code.
func (d *Division) NaturalKey() string { return d.DivisionCode }
