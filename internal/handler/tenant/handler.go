package tenant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medregistry/registry-api/internal/handler"
	"github.com/medregistry/registry-api/internal/middleware"
	"github.com/medregistry/registry-api/internal/model"
	tenantsvc "github.com/medregistry/registry-api/internal/service/tenant"
	"github.com/medregistry/registry-api/pkg/principal"
)

type Handler struct {
	service *tenantsvc.Service
}

func NewHandler(service *tenantsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tenants := r.Group("/tenants")
	{
		tenants.PUT("/:key", h.UpsertTenant)
		tenants.GET("/:key", h.GetTenant)
		tenants.DELETE("/:key", h.DeleteTenant)
		tenants.PUT("/:key/staff/:principal", h.UpdateStaffRole)
		tenants.GET("/:key/staff/:principal", h.GetStaffRole)
		tenants.DELETE("/:key/staff/:principal", h.DeleteStaff)
	}
}

// UpsertTenant registers the tenant under the path key, overwriting any
// tenant already there. Returns 201 on first registration, 200 on overwrite.
func (h *Handler) UpsertTenant(c *gin.Context) {
	var req model.UpsertTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	t, replaced, err := h.service.UpsertTenant(c.Request.Context(),
		c.Param("key"), req.Name, req.Location, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	c.JSON(status, handler.NewSuccessResponse(t))
}

func (h *Handler) GetTenant(c *gin.Context) {
	t, err := h.service.GetTenant(c.Request.Context(), c.Param("key"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(t))
}

func (h *Handler) DeleteTenant(c *gin.Context) {
	err := h.service.DeleteTenant(c.Request.Context(), c.Param("key"), middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UpdateStaffRole(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	var req model.UpdateStaffRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	err := h.service.UpdateStaffRole(c.Request.Context(),
		c.Param("key"), addr, req.Role, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"principal": addr,
		"role":      req.Role,
	}))
}

func (h *Handler) GetStaffRole(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	role, err := h.service.StaffRole(c.Request.Context(), c.Param("key"), addr)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"principal": addr,
		"role":      role,
	}))
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	err := h.service.DeleteStaff(c.Request.Context(), c.Param("key"), addr, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func pathPrincipal(c *gin.Context) (principal.Address, bool) {
	addr, err := principal.Parse(c.Param("principal"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid principal: "+err.Error()))
		return principal.Zero, false
	}
	return addr, true
}
