package crud

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/middleware"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Guard returns the middleware protecting one action ("read" or "write") on
// a resource. A nil Guard leaves routes open to any authenticated caller.
type Guard func(resource, action string) gin.HandlerFunc

// Handler serves the REST surface of one entity.
type Handler[C, U, D any] struct {
	svc    domain.Service[C, U, D]
	limits pkg.PageLimits
}

// NewHandler creates a handler over svc.
func NewHandler[C, U, D any](svc domain.Service[C, U, D], limits pkg.PageLimits) *Handler[C, U, D] {
	return &Handler[C, U, D]{svc: svc, limits: limits}
}

// Register mounts the list, read, create, update, and delete routes on g.
func (h *Handler[C, U, D]) Register(g *gin.RouterGroup, resource string, guard Guard) {
	read, write := Guards(guard, resource)
	g.GET("", append(read, h.List)...)
	g.GET("/code/:code", append(read, h.GetByCode)...)
	g.GET("/:id", append(read, h.Get)...)
	g.POST("", append(write, h.Create)...)
	g.PUT("/:id", append(write, h.Update)...)
	g.DELETE("/:id", append(write, h.Delete)...)
}

// Guards resolves the read and write middleware chains for resource.
func Guards(guard Guard, resource string) (read, write []gin.HandlerFunc) {
	if guard == nil {
		return nil, nil
	}
	return []gin.HandlerFunc{guard(resource, "read")}, []gin.HandlerFunc{guard(resource, "write")}
}

// List handles GET /{resource}.
func (h *Handler[C, U, D]) List(c *gin.Context) {
	filter, err := pkg.ParseFilter(c, h.limits)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	page, err := h.svc.GetAll(c.Request.Context(), filter)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}

// Get handles GET /{resource}/:id.
func (h *Handler[C, U, D]) Get(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	dto, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, dto)
}

// GetByCode handles GET /{resource}/code/:code.
func (h *Handler[C, U, D]) GetByCode(c *gin.Context) {
	dto, err := h.svc.GetByNaturalKey(c.Request.Context(), c.Param("code"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, dto)
}

// Create handles POST /{resource}.
func (h *Handler[C, U, D]) Create(c *gin.Context) {
	var in C
	if !pkg.BindAndValidate(c, &in) {
		return
	}
	dto, err := h.svc.Create(c.Request.Context(), in, middleware.UserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, dto)
}

// Update handles PUT /{resource}/:id.
func (h *Handler[C, U, D]) Update(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	var in U
	if !pkg.BindAndValidate(c, &in) {
		return
	}
	dto, err := h.svc.Update(c.Request.Context(), id, in, middleware.UserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, dto)
}

// Delete handles DELETE /{resource}/:id.
func (h *Handler[C, U, D]) Delete(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.NoContent(c)
}

// ParseID reads the :id path parameter. On failure it writes a 400 response
// and returns false.
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "invalid id", err))
		return 0, false
	}
	return uint(id), true
}
