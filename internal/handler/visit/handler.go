package visit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medregistry/registry-api/internal/handler"
	"github.com/medregistry/registry-api/internal/middleware"
	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/internal/registry"
	visitsvc "github.com/medregistry/registry-api/internal/service/visit"
	"github.com/medregistry/registry-api/pkg/principal"
)

type Handler struct {
	service *visitsvc.Service
}

func NewHandler(service *visitsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	visits := r.Group("/tenants/:key/patients/:principal/visits")
	{
		visits.POST("", h.RecordVisit)
		visits.GET("", h.ListVisits)
		visits.GET("/:date", h.GetVisit)
	}
}

// RecordVisit appends the payload entries to the visit dated by the request
// body, creating the visit on first use. Always 201: a same-date call is a
// merge into the ledger, not a replacement.
func (h *Handler) RecordVisit(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	var req model.RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	v, err := h.service.RecordVisit(c.Request.Context(), c.Param("key"), registry.VisitInput{
		Principal:     addr,
		Date:          req.Date,
		Medications:   req.Medications,
		Diagnoses:     req.Diagnoses,
		TreatmentPlan: req.TreatmentPlan,
	}, middleware.Principal(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(v))
}

func (h *Handler) ListVisits(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	visits, err := h.service.ListVisits(c.Request.Context(), c.Param("key"), addr)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(visits))
}

func (h *Handler) GetVisit(c *gin.Context) {
	addr, ok := pathPrincipal(c)
	if !ok {
		return
	}

	date, err := strconv.ParseInt(c.Param("date"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid visit date"))
		return
	}

	v, err := h.service.GetVisit(c.Request.Context(), c.Param("key"), addr, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(v))
}

func pathPrincipal(c *gin.Context) (principal.Address, bool) {
	addr, err := principal.Parse(c.Param("principal"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid principal: "+err.Error()))
		return principal.Zero, false
	}
	return addr, true
}
