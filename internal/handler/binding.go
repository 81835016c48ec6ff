package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medregistry/registry-api/pkg/principal"
)

// RegisterValidations installs the custom binding rules used by request
// payloads. Safe to call more than once.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("principal", func(fl validator.FieldLevel) bool {
		_, err := principal.Parse(fl.Field().String())
		return err == nil
	})
}
