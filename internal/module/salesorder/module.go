package salesorder

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/middleware"
	"github.com/simp-lee/backoffice/internal/module/customer"
	"github.com/simp-lee/backoffice/internal/module/item"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Module serves the sales order API.
type Module struct {
	svc     *Service
	handler *crud.Handler[SalesOrderRequest, SalesOrderRequest, SalesOrderResponse]
}

// NewModule wires the sales order repository, service, and handlers.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits) *Module {
	svc := NewService(
		crud.NewRepository[domain.SalesOrder](db, Spec, clock).WithLimits(limits),
		crud.NewRepository[domain.Customer](db, customer.Spec, clock),
		crud.NewRepository[domain.ItemMaster](db, item.Spec, clock),
	)
	return &Module{
		svc:     svc,
		handler: crud.NewHandler[SalesOrderRequest, SalesOrderRequest, SalesOrderResponse](svc, limits),
	}
}

// RegisterRoutes mounts /sales-orders and the workflow actions.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	g := api.Group("/" + Spec.Resource)
	_, write := crud.Guards(guard, Spec.Resource)
	g.POST("/:id/submit", append(write, m.submit)...)
	g.POST("/:id/approve", append(write, m.approve)...)
	g.POST("/:id/reject", append(write, m.reject)...)
	m.handler.Register(g, Spec.Resource, guard)
}

func (m *Module) submit(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	m.respond(c)(m.svc.Submit(c.Request.Context(), id, middleware.UserID(c)))
}

func (m *Module) approve(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	m.respond(c)(m.svc.Approve(c.Request.Context(), id, middleware.UserID(c)))
}

func (m *Module) reject(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	var req RejectRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	m.respond(c)(m.svc.Reject(c.Request.Context(), id, req.Reason, middleware.UserID(c)))
}

func (m *Module) respond(c *gin.Context) func(SalesOrderResponse, error) {
	return func(resp SalesOrderResponse, err error) {
		if err != nil {
			pkg.Error(c, err)
			return
		}
		pkg.Success(c, resp)
	}
}
