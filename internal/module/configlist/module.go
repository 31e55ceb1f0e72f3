package configlist

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Module serves the config list API.
type Module struct {
	svc     *Service
	handler *crud.Handler[ConfigListRequest, ConfigListRequest, ConfigListResponse]
}

// NewModule wires the config list repository, service, and handler.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits) *Module {
	svc := NewService(crud.NewRepository[domain.ConfigList](db, Spec, clock).WithLimits(limits))
	return &Module{
		svc:     svc,
		handler: crud.NewHandler[ConfigListRequest, ConfigListRequest, ConfigListResponse](svc, limits),
	}
}

// RegisterRoutes mounts /config-lists.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	g := api.Group("/" + Spec.Resource)
	read, _ := crud.Guards(guard, Spec.Resource)
	g.GET("/code/:code/values", append(read, m.activeValues)...)
	m.handler.Register(g, Spec.Resource, guard)
}

func (m *Module) activeValues(c *gin.Context) {
	values, err := m.svc.ActiveValues(c.Request.Context(), c.Param("code"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, values)
}
