package organization

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Module serves the organization and division APIs.
type Module struct {
	organizations *crud.Handler[OrganizationRequest, OrganizationRequest, OrganizationResponse]
	divisions     *crud.Handler[DivisionRequest, DivisionRequest, DivisionResponse]
}

// NewModule wires both entities over db.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits) *Module {
	orgRepo := crud.NewRepository[domain.Organization](db, OrganizationSpec, clock).WithLimits(limits)
	divRepo := crud.NewRepository[domain.Division](db, DivisionSpec, clock).WithLimits(limits)

	return &Module{
		organizations: crud.NewHandler[OrganizationRequest, OrganizationRequest, OrganizationResponse](
			NewOrganizationService(orgRepo, divRepo), limits),
		divisions: crud.NewHandler[DivisionRequest, DivisionRequest, DivisionResponse](
			NewDivisionService(divRepo, orgRepo), limits),
	}
}

// RegisterRoutes mounts /organizations and /divisions.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	m.organizations.Register(api.Group("/"+OrganizationSpec.Resource), OrganizationSpec.Resource, guard)
	m.divisions.Register(api.Group("/"+DivisionSpec.Resource), DivisionSpec.Resource, guard)
}
