package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medregistry/registry-api/internal/registry"
	"github.com/medregistry/registry-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps registry failures onto HTTP statuses. The response
// carries the error kind's message together with the offending value.
func RespondError(c *gin.Context, err error) {
	if stderrors.Is(err, registry.ErrVisitNotFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse(registry.ErrVisitNotFound.Error()))
		return
	}

	var re *errors.RegistryError
	if !stderrors.As(err, &re) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	status := http.StatusInternalServerError
	switch re.Kind {
	case errors.KindInvalidAddress, errors.KindInvalidRole:
		status = http.StatusBadRequest
	case errors.KindNotOwner, errors.KindNotAuthorized:
		status = http.StatusForbidden
	case errors.KindTenantNotFound, errors.KindStaffNotFound, errors.KindPatientNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, NewErrorResponse(re.Error()))
}
