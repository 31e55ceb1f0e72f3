package organization

import (
	"strings"

	"github.com/simp-lee/backoffice/internal/domain"
)

// OrganizationMapper converts organization requests and records.
type OrganizationMapper struct{}

// FromCreate builds a new active organization from in.
func (m OrganizationMapper) FromCreate(in OrganizationRequest) (*domain.Organization, error) {
	o := &domain.Organization{}
	o.IsActive = true
	if err := m.ApplyUpdate(o, in); err != nil {
		return nil, err
	}
	return o, nil
}

// ApplyUpdate copies in onto o.
func (OrganizationMapper) ApplyUpdate(o *domain.Organization, in OrganizationRequest) error {
	o.OrgCode = strings.TrimSpace(in.OrgCode)
	o.Name = strings.TrimSpace(in.Name)
	o.LegalName = strings.TrimSpace(in.LegalName)
	o.TaxNumber = strings.TrimSpace(in.TaxNumber)
	o.Country = strings.TrimSpace(in.Country)
	o.Email = strings.ToLower(strings.TrimSpace(in.Email))
	o.Phone = strings.TrimSpace(in.Phone)
	if in.IsActive != nil {
		o.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts o to its API representation.
func (OrganizationMapper) ToDTO(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		OrgCode:   o.OrgCode,
		Name:      o.Name,
		LegalName: o.LegalName,
		TaxNumber: o.TaxNumber,
		Country:   o.Country,
		Email:     o.Email,
		Phone:     o.Phone,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		CreatedBy: o.CreatedBy,
		UpdatedBy: o.UpdatedBy,
	}
}

// DivisionMapper converts division requests and records.
type DivisionMapper struct{}

// FromCreate builds a new active division from in.
func (m DivisionMapper) FromCreate(in DivisionRequest) (*domain.Division, error) {
	d := &domain.Division{}
	d.IsActive = true
	if err := m.ApplyUpdate(d, in); err != nil {
		return nil, err
	}
	return d, nil
}

// ApplyUpdate copies in onto d.
func (DivisionMapper) ApplyUpdate(d *domain.Division, in DivisionRequest) error {
	d.DivisionCode = strings.TrimSpace(in.DivisionCode)
	d.Name = strings.TrimSpace(in.Name)
	d.OrganizationID = in.OrganizationID
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts d to its API representation.
func (DivisionMapper) ToDTO(d *domain.Division) DivisionResponse {
	return DivisionResponse{
		ID:             d.ID,
		DivisionCode:   d.DivisionCode,
		Name:           d.Name,
		OrganizationID: d.OrganizationID,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		CreatedBy:      d.CreatedBy,
		UpdatedBy:      d.UpdatedBy,
	}
}
