package types

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"

	"github.com/acme-commerce/storefront-api/internal/openpayments"
)

// PostPaymentStartPayload is the request body of POST /payment/start.
type PostPaymentStartPayload struct {
	// Customer payment pointer, e.g. "$backend/alice"
	// Required: true
	CustomerPaymentPointer *string `json:"customerPaymentPointer"`

	// Decimal amount string, e.g. "10.00"
	// Required: true
	Amount *string `json:"amount"`
}

func (m *PostPaymentStartPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("customerPaymentPointer", "body", m.CustomerPaymentPointer); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("amount", "body", m.Amount); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PaymentStartResponse mirrors the original storefront contract: everything
// the browser needs to run the confirmation ceremony and call finish.
type PaymentStartResponse struct {
	OutgoingPaymentGrantContinue *openpayments.GrantResponse   `json:"outgoingPaymentGrantContinue"`
	IncomingPayment              *openpayments.IncomingPayment `json:"incomingPayment"`
	KeyID                        string                        `json:"keyId"`
	SignatureURL                 string                        `json:"signatureUrl"`
	CustomerPaymentPointerURL    string                        `json:"customerPaymentPointerUrl"`
	MerchantPaymentPointerURL    string                        `json:"merchantPaymentPointerUrl"`
	MerchantHost                 string                        `json:"merchantHost"`
	CustomerHost                 string                        `json:"customerHost"`
}

func (m *PaymentStartResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if m.OutgoingPaymentGrantContinue == nil {
		res = append(res, errors.Required("outgoingPaymentGrantContinue", "body", nil))
	}
	if m.IncomingPayment == nil {
		res = append(res, errors.Required("incomingPayment", "body", nil))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PostPaymentFinishPayload is the request body of POST /payment/finish. It
// round-trips the start response plus the credential assertion produced by
// the browser ceremony. The assertion stays opaque.
type PostPaymentFinishPayload struct {
	// Required: true
	Credential json.RawMessage `json:"credential"`

	// Required: true
	KeyID *string `json:"keyId"`

	// Required: true
	SignatureURL *string `json:"signatureUrl"`

	// Required: true
	IncomingPayment *openpayments.IncomingPayment `json:"incomingPayment"`

	// Required: true
	OutgoingPaymentGrantContinue *openpayments.GrantResponse `json:"outgoingPaymentGrantContinue"`

	// Required: true
	CustomerPaymentPointerURL *string `json:"customerPaymentPointerUrl"`

	// Required: true
	CustomerHost *string `json:"customerHost"`

	// Required: true
	MerchantHost *string `json:"merchantHost"`
}

func (m *PostPaymentFinishPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if len(m.Credential) == 0 {
		res = append(res, errors.Required("credential", "body", nil))
	}
	if err := validate.Required("keyId", "body", m.KeyID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("signatureUrl", "body", m.SignatureURL); err != nil {
		res = append(res, err)
	}
	if m.IncomingPayment == nil {
		res = append(res, errors.Required("incomingPayment", "body", nil))
	}
	if m.OutgoingPaymentGrantContinue == nil {
		res = append(res, errors.Required("outgoingPaymentGrantContinue", "body", nil))
	}
	if err := validate.Required("customerPaymentPointerUrl", "body", m.CustomerPaymentPointerURL); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("customerHost", "body", m.CustomerHost); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("merchantHost", "body", m.MerchantHost); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

type PaymentFinishResponse struct {
	OutgoingPayment *openpayments.OutgoingPayment `json:"outgoingPayment"`
}

func (m *PaymentFinishResponse) Validate(formats strfmt.Registry) error {
	if m.OutgoingPayment == nil {
		return errors.Required("outgoingPayment", "body", nil)
	}
	return nil
}

// PaymentErrorResponse is the fixed failure shape of the payment boundary:
// a single short human-readable string, never an upstream payload.
type PaymentErrorResponse struct {
	Error string `json:"error"`
}

func (m *PaymentErrorResponse) Validate(formats strfmt.Registry) error {
	return nil
}
