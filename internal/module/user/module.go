package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Module serves the user API.
type Module struct {
	svc   *Service
	crud  *crud.Handler[CreateUserRequest, UpdateUserRequest, UserResponse]
	roles *RolesHandler
}

// NewModule wires the user repository, service, and handlers.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits, mapper Mapper) *Module {
	svc := NewService(NewRepository(db, clock).WithLimits(limits), mapper)
	return &Module{
		svc:   svc,
		crud:  crud.NewHandler[CreateUserRequest, UpdateUserRequest, UserResponse](svc, limits),
		roles: NewRolesHandler(svc),
	}
}

// Service exposes the user service to the auth module.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes mounts /users.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	g := api.Group("/" + Spec.Resource)
	_, write := crud.Guards(guard, Spec.Resource)
	g.PUT("/:id/roles", append(write, m.roles.SetRoles)...)
	m.crud.Register(g, Spec.Resource, guard)
}
