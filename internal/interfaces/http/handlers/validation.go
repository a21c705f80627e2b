package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "paydesk/internal/domain/billing/valueobjects"
)

// The mobile rule delegates to the domain value object, so the binding
// layer and the use case accept exactly the same numbers.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			_, err := vo.NewMobileNumber(fl.Field().String())
			return err == nil
		})
	}
}
