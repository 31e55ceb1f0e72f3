package app

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/backoffice/internal/crud"
)

// Module defines the contract for a self-registering business module.
// Each module mounts its routes on the API group and wraps them with
// guard when one is configured.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, guard crud.Guard)
}
