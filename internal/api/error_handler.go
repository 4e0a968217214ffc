package api

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/acme-commerce/storefront-api/internal/api/httperrors"
	"github.com/acme-commerce/storefront-api/internal/config"
	"github.com/acme-commerce/storefront-api/internal/types"
	"github.com/acme-commerce/storefront-api/internal/util"
)

// HTTPErrorHandler renders every unhandled error as a PublicHTTPError,
// hiding internal details when configured to.
func HTTPErrorHandler(cfg config.EchoServer) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var payload types.PublicHTTPError

		switch e := err.(type) {
		case *httperrors.HTTPError:
			payload = e.PublicHTTPError
			if e.Internal != nil {
				util.LogFromEchoContext(c).Debug().Err(e.Internal).Msg("HTTP error with internal cause")
			}
		case *echo.HTTPError:
			code := int64(e.Code)
			msg := http.StatusText(e.Code)
			if s, ok := e.Message.(string); ok && !(cfg.HideInternalServerErrorDetails && e.Code == http.StatusInternalServerError) {
				msg = s
			}
			payload = types.PublicHTTPError{
				Code:  swag.Int64(code),
				Type:  swag.String(types.PublicHTTPErrorTypeGeneric),
				Title: swag.String(msg),
			}
		default:
			util.LogFromEchoContext(c).Error().Err(err).Msg("Unhandled error")
			title := http.StatusText(http.StatusInternalServerError)
			if !cfg.HideInternalServerErrorDetails {
				title = err.Error()
			}
			payload = types.PublicHTTPError{
				Code:  swag.Int64(http.StatusInternalServerError),
				Type:  swag.String(types.PublicHTTPErrorTypeGeneric),
				Title: swag.String(title),
			}
		}

		if writeErr := c.JSON(int(swag.Int64Value(payload.Code)), payload); writeErr != nil {
			util.LogFromEchoContext(c).Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}
