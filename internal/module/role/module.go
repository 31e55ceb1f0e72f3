package role

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/middleware"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Module serves the role and permission APIs.
type Module struct {
	roles       *RoleService
	roleHandler *crud.Handler[RoleRequest, RoleRequest, RoleResponse]
	permHandler *crud.Handler[PermissionRequest, PermissionRequest, PermissionResponse]
	checker     *Checker
}

// NewModule wires the role and permission repositories, services, and handlers.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits) *Module {
	roles := NewRoleService(crud.NewRepository[domain.Role](db, RoleSpec, clock).WithLimits(limits))
	perms := NewPermissionService(crud.NewRepository[domain.Permission](db, PermissionSpec, clock).WithLimits(limits))
	return &Module{
		roles:       roles,
		roleHandler: crud.NewHandler[RoleRequest, RoleRequest, RoleResponse](roles, limits),
		permHandler: crud.NewHandler[PermissionRequest, PermissionRequest, PermissionResponse](perms, limits),
		checker:     NewChecker(db),
	}
}

// Checker returns the permission checker backed by role assignments.
func (m *Module) Checker() *Checker {
	return m.checker
}

// RegisterRoutes mounts /roles and /permissions.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	roles := api.Group("/" + RoleSpec.Resource)
	_, write := crud.Guards(guard, RoleSpec.Resource)
	roles.PUT("/:id/permissions", append(write, m.setPermissions)...)
	m.roleHandler.Register(roles, RoleSpec.Resource, guard)

	m.permHandler.Register(api.Group("/"+PermissionSpec.Resource), PermissionSpec.Resource, guard)
}

func (m *Module) setPermissions(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	var req PermissionsRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	resp, err := m.roles.SetPermissions(c.Request.Context(), id, req.PermissionIDs, middleware.UserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}
