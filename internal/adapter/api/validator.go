package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"startupmarket/pkg/logger"
	"startupmarket/pkg/response"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports field errors by their json name.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders errors escaping handlers, such as 401s from the auth
// middleware and unknown routes, in the standard envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if err := response.Error(c, err); err != nil {
		logger.Error("Failed to write error response: %v", err)
	}
}
