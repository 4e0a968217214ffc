package httperrors

import (
	"net/http"

	"github.com/acme-commerce/storefront-api/internal/types"
)

var (
	ErrBadRequestInvalidAmount = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Amount is not a valid decimal number.")
	ErrNotFoundCart            = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeGeneric, "Cart does not exist.")
	ErrNotFoundCartItem        = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeGeneric, "Cart item does not exist.")
)
