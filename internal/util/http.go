package util

import (
	"net/http"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"

	"github.com/acme-commerce/storefront-api/internal/api/httperrors"
	"github.com/acme-commerce/storefront-api/internal/types"
)

// BindAndValidateBody binds the request body to v and runs its validation.
// Validation failures surface as 400s with the public generic error type.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "unsupported binder")
	}
	if err := binder.BindBody(c, v); err != nil {
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Could not parse request body.", err)
	}
	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload before writing it,
// guarding against handing out a partial body.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload validation failed")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Payload validation failed")
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, err.Error(), err)
	}
	return nil
}
