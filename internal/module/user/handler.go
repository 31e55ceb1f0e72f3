package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/middleware"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// RolesHandler serves role assignment for users.
type RolesHandler struct {
	svc *Service
}

// NewRolesHandler creates a RolesHandler over svc.
func NewRolesHandler(svc *Service) *RolesHandler {
	return &RolesHandler{svc: svc}
}

// SetRoles handles PUT /api/v1/users/:id/roles.
func (h *RolesHandler) SetRoles(c *gin.Context) {
	id, ok := crud.ParseID(c)
	if !ok {
		return
	}
	var req RolesRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.SetRoles(c.Request.Context(), id, req.RoleIDs, middleware.UserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}
