package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medregistry/registry-api/internal/handler"
	"github.com/medregistry/registry-api/internal/middleware"
	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/internal/registry"
	patientsvc "github.com/medregistry/registry-api/internal/service/patient"
	"github.com/medregistry/registry-api/pkg/principal"
)

type Handler struct {
	service *patientsvc.Service
}

func NewHandler(service *patientsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/tenants/:key/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("/:principal", h.GetPatient)
		patients.DELETE("/:principal", h.DeletePatient)
		patients.PUT("/:principal/emergency-contacts", h.AddEmergencyContact)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	addr, err := principal.Parse(req.Principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid principal: "+err.Error()))
		return
	}

	p, err := h.service.CreatePatient(c.Request.Context(), c.Param("key"), registry.PatientInput{
		Principal: addr,
		Name:      req.Name,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Allergies: req.Allergies,
		Contacts:  req.Contacts,
		Insurance: req.Insurance,
	}, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) GetPatient(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), c.Param("key"), addr)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	err := h.service.DeletePatient(c.Request.Context(), c.Param("key"), addr, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AddEmergencyContact(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	var req model.AddEmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	err := h.service.AddEmergencyContact(c.Request.Context(), c.Param("key"),
		addr, req.Relation, req.Contact, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"relation": req.Relation,
		"contact":  req.Contact,
	}))
}

func pathPrincipal(c *gin.Context) (principal.Address, bool) {
	addr, err := principal.Parse(c.Param("principal"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid principal: "+err.Error()))
		return principal.Zero, false
	}
	return addr, true
}
