package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/backoffice/internal/crud"
)

// Module mounts the authentication routes.
type Module struct {
	handler *AuthHandler
}

// NewModule creates a new Module with the given handler.
// Panics if h is nil.
func NewModule(h *AuthHandler) *Module {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers auth API routes. Login and register must be
// listed in the public paths of the auth middleware; the guard is not
// applied to any of them.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, _ crud.Guard) {
	auth := api.Group("/auth")
	auth.POST("/login", m.handler.Login)
	auth.POST("/register", m.handler.Register)
	auth.GET("/me", m.handler.Me)
}
