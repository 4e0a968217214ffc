package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"

	"github.com/acme-commerce/storefront-api/internal/cart"
)

// PostCartItemPayload adds a product variant to a cart. Catalog lookup is the
// storefront's job, so the payload carries the display data directly.
type PostCartItemPayload struct {
	// Required: true
	ProductID *string `json:"productId"`

	// Required: true
	VariantID *string `json:"variantId"`

	// Required: true
	Name *string `json:"name"`

	// Unit price in the cart currency.
	// Required: true
	Price *float64 `json:"price"`
}

func (m *PostCartItemPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("productId", "body", m.ProductID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("variantId", "body", m.VariantID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("name", "body", m.Name); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("price", "body", m.Price); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

type PutCartItemPayload struct {
	// Required: true
	Quantity *int64 `json:"quantity"`
}

func (m *PutCartItemPayload) Validate(formats strfmt.Registry) error {
	if err := validate.Required("quantity", "body", m.Quantity); err != nil {
		return err
	}
	if err := validate.MinimumInt("quantity", "body", swag.Int64Value(m.Quantity), 1, false); err != nil {
		return err
	}
	return nil
}

type CartResponse struct {
	Cart *cart.Cart `json:"cart"`
}

func (m *CartResponse) Validate(formats strfmt.Registry) error {
	if m.Cart == nil {
		return errors.Required("cart", "body", nil)
	}
	return nil
}
