package customer

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/middleware"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Module serves the customer API.
type Module struct {
	svc  *Service
	crud *crud.Handler[CustomerRequest, CustomerRequest, CustomerResponse]
}

// NewModule wires the customer repository, service, and handlers.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits) *Module {
	svc := NewService(crud.NewRepository[domain.Customer](db, Spec, clock).WithLimits(limits))
	return &Module{
		svc:  svc,
		crud: crud.NewHandler[CustomerRequest, CustomerRequest, CustomerResponse](svc, limits),
	}
}

// Service exposes the customer service to other modules.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes mounts /customers.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	g := api.Group("/" + Spec.Resource)
	_, write := crud.Guards(guard, Spec.Resource)
	g.POST("/full", append(write, m.createFull)...)
	g.PUT("/:id/full", append(write, m.updateFull)...)
	m.crud.Register(g, Spec.Resource, guard)
}

func (m *Module) createFull(c *gin.Context) {
	var req FullCustomerRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	resp, err := m.svc.CreateFull(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, resp)
}

func (m *Module) updateFull(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	var req FullCustomerRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	resp, err := m.svc.UpdateFull(c.Request.Context(), id, req, middleware.UserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}
