package organization

import "time"

// OrganizationRequest is the input for creating or updating an organization.
type OrganizationRequest struct {
	OrgCode   string `json:"orgCode" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=200"`
	LegalName string `json:"legalName" binding:"max=255"`
	TaxNumber string `json:"taxNumber" binding:"max=50"`
	Country   string `json:"country" binding:"max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Phone     string `json:"phone" binding:"max=30"`
	IsActive  *bool  `json:"isActive"`
}

// OrganizationResponse is the API representation of an organization.
type OrganizationResponse struct {
	ID        uint       `json:"id"`
	OrgCode   string     `json:"orgCode"`
	Name      string     `json:"name"`
	LegalName string     `json:"legalName"`
	TaxNumber string     `json:"taxNumber"`
	Country   string     `json:"country"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	CreatedBy *uint      `json:"createdBy"`
	UpdatedBy *uint      `json:"updatedBy"`
}

// DivisionRequest is the input for creating or updating a division.
type DivisionRequest struct {
	DivisionCode   string `json:"divisionCode" binding:"required,max=50"`
	Name           string `json:"name" binding:"required,max=200"`
	OrganizationID uint   `json:"organizationId" binding:"required"`
	IsActive       *bool  `json:"isActive"`
}

// DivisionResponse is the API representation of a division.
type DivisionResponse struct {
	ID             uint       `json:"id"`
	DivisionCode   string     `json:"divisionCode"`
	Name           string     `json:"name"`
	OrganizationID uint       `json:"organizationId"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
	CreatedBy      *uint      `json:"createdBy"`
	UpdatedBy      *uint      `json:"updatedBy"`
}
