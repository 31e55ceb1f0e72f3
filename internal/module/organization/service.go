package organization

import (
	"context"
	"fmt"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
)

// OrganizationSpec describes how organizations are queried and stored.
var OrganizationSpec = crud.Spec{
	Name:          "organization",
	Resource:      "organizations",
	KeyColumn:     "org_code",
	KeyField:      "orgCode",
	SearchColumns: []string{"org_code", "name", "legal_name", "tax_number"},
	EqualFilters:  map[string]string{"country": "country"},
	SortFields: map[string]string{
		"name":    "name",
		"country": "country",
	},
	Delete: crud.SoftDelete,
}

// DivisionSpec describes how divisions are queried and stored.
var DivisionSpec = crud.Spec{
	Name:          "division",
	Resource:      "divisions",
	KeyColumn:     "division_code",
	KeyField:      "divisionCode",
	SearchColumns: []string{"division_code", "name"},
	IntFilters:    map[string]string{"organizationId": "organization_id"},
	SortFields: map[string]string{
		"name":           "name",
		"organizationId": "organization_id",
	},
	Delete: crud.HardDelete,
}

type (
	organizationRepo = crud.Repository[domain.Organization, *domain.Organization]
	divisionRepo     = crud.Repository[domain.Division, *domain.Division]
	organizationBase = crud.Service[domain.Organization, *domain.Organization, OrganizationRequest, OrganizationRequest, OrganizationResponse]
	divisionBase     = crud.Service[domain.Division, *domain.Division, DivisionRequest, DivisionRequest, DivisionResponse]
)

// OrganizationService refuses to delete organizations that still own divisions.
type OrganizationService struct {
	*organizationBase
	divisions *divisionRepo
}

// NewOrganizationService creates the organization service.
func NewOrganizationService(orgs *organizationRepo, divisions *divisionRepo) *OrganizationService {
	return &OrganizationService{
		organizationBase: crud.NewService[domain.Organization, *domain.Organization, OrganizationRequest, OrganizationRequest, OrganizationResponse](orgs, OrganizationMapper{}, OrganizationSpec),
		divisions:        divisions,
	}
}

// Delete soft-deletes the organization with id.
func (s *OrganizationService) Delete(ctx context.Context, id uint, actingUserID uint) error {
	var owned int64
	err := s.divisions.DB().WithContext(ctx).Model(&domain.Division{}).
		Where("organization_id = ?", id).Count(&owned).Error
	if err != nil {
		return s.Translate(ctx, "check", crud.MapError(OrganizationSpec.Name, err))
	}
	if owned > 0 {
		return domain.NewAppError(domain.CodeConflict,
			fmt.Sprintf("organization still has %d division(s)", owned), nil)
	}
	return s.organizationBase.Delete(ctx, id, actingUserID)
}

// DivisionService checks that a division's organization exists and is live.
type DivisionService struct {
	*divisionBase
	orgs domain.Repository[domain.Organization]
}

// NewDivisionService creates the division service.
func NewDivisionService(divisions *divisionRepo, orgs domain.Repository[domain.Organization]) *DivisionService {
	return &DivisionService{
		divisionBase: crud.NewService[domain.Division, *domain.Division, DivisionRequest, DivisionRequest, DivisionResponse](divisions, DivisionMapper{}, DivisionSpec),
		orgs:         orgs,
	}
}

// Create adds a division to an existing organization.
func (s *DivisionService) Create(ctx context.Context, in DivisionRequest, actingUserID uint) (DivisionResponse, error) {
	if err := s.checkOrganization(ctx, in.OrganizationID); err != nil {
		return DivisionResponse{}, err
	}
	return s.divisionBase.Create(ctx, in, actingUserID)
}

// Update changes a division, possibly moving it to another organization.
func (s *DivisionService) Update(ctx context.Context, id uint, in DivisionRequest, actingUserID uint) (DivisionResponse, error) {
	if err := s.checkOrganization(ctx, in.OrganizationID); err != nil {
		return DivisionResponse{}, err
	}
	return s.divisionBase.Update(ctx, id, in, actingUserID)
}

func (s *DivisionService) checkOrganization(ctx context.Context, orgID uint) error {
	ok, err := s.orgs.Exists(ctx, orgID)
	if err != nil {
		return s.Translate(ctx, "check", err)
	}
	if !ok {
		return domain.NewAppError(domain.CodeValidation,
			fmt.Sprintf("organization %d does not exist", orgID), nil)
	}
	return nil
}
