package httperrors

import (
	"fmt"

	"github.com/go-openapi/swag"

	"github.com/acme-commerce/storefront-api/internal/types"
)

// HTTPError wraps the public error payload with an internal error that is
// logged but never serialized.
type HTTPError struct {
	types.PublicHTTPError
	Internal error
}

func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(errorType),
			Title: swag.String(title),
		},
	}
}

func NewHTTPErrorWithInternal(code int, errorType, title string, internal error) *HTTPError {
	err := NewHTTPError(code, errorType, title)
	err.Internal = internal
	return err
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", swag.Int64Value(e.Code), swag.StringValue(e.Type), swag.StringValue(e.Title), e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", swag.Int64Value(e.Code), swag.StringValue(e.Type), swag.StringValue(e.Title))
}
