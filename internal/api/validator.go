package api

import (
	"slices"

	"devcamper/internal/model"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator 註冊自訂規則 career
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Careers, fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
