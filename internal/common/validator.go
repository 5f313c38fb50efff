package common

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// structValidator caches struct metadata and is safe for concurrent use
var structValidator = validator.New()

// ValidateStruct checks i against its `validate` struct tags
func ValidateStruct(i interface{}) error {
	if err := structValidator.Struct(i); err != nil {
		return fmt.Errorf("received invalid configuration: %v", err)
	}
	return nil
}

// GenericEchoValidator lets echo handlers call ctx.Validate on bound request values
type GenericEchoValidator struct {
	Validator *validator.Validate
}

// NewGenericEchoValidator shares the package validator, which is safe for concurrent use
func NewGenericEchoValidator() *GenericEchoValidator {
	return &GenericEchoValidator{Validator: structValidator}
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	if err := gv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request: %v", err))
	}
	return nil
}
