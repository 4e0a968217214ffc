package openpayments

import (
	"errors"
	"fmt"
)

// Step identifies the protocol step a failure occurred in. Every outbound
// call maps its own failure to exactly one step; nothing is retried.
type Step string

const (
	StepResolveEndpoint  Step = "resolve-endpoint"
	StepKeyDiscovery     Step = "key-discovery"
	StepSignatureService Step = "signature-service"
	StepIncomingGrant    Step = "incoming-payment-grant"
	StepIncomingPayment  Step = "incoming-payment"
	StepOutgoingGrant    Step = "outgoing-payment-grant"
	StepContinuation     Step = "grant-continuation"
	StepQuote            Step = "quote"
	StepOutgoingPayment  Step = "outgoing-payment"
)

// publicMessages are the only failure strings that ever leave the service.
// Upstream payloads and internal errors stay in the logs.
var publicMessages = map[Step]string{
	StepResolveEndpoint:  "could not resolve payment pointer",
	StepKeyDiscovery:     "error fetching the client's keys",
	StepSignatureService: "error fetching the signature headers",
	StepIncomingGrant:    "error requesting incoming payment grant",
	StepIncomingPayment:  "error creating incoming payment",
	StepOutgoingGrant:    "error requesting outgoing payment grant",
	StepContinuation:     "error continuing outgoing payment grant",
	StepQuote:            "error requesting quote",
	StepOutgoingPayment:  "error requesting outgoing payment",
}

// StepError carries the failing step, the wrapped cause and, where one was
// received, the upstream response body.
type StepError struct {
	Step         Step
	Err          error
	UpstreamBody string
}

func (e *StepError) Error() string {
	if e.UpstreamBody != "" {
		return fmt.Sprintf("openpayments: step %s failed: %v: %s", e.Step, e.Err, e.UpstreamBody)
	}
	return fmt.Sprintf("openpayments: step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// PublicMessage returns the short human-readable string for the failing
// step, suitable for the boundary error response.
func (e *StepError) PublicMessage() string {
	if msg, ok := publicMessages[e.Step]; ok {
		return msg
	}
	return "payment failed"
}

func newStepError(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

func newUpstreamError(step Step, status int, body string) *StepError {
	return &StepError{
		Step:         step,
		Err:          fmt.Errorf("unexpected upstream status %d", status),
		UpstreamBody: body,
	}
}

// StepOf extracts the failing step from an error chain, or "".
func StepOf(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

var (
	// ErrInteractionCancelled marks a checkout attempt the user declined
	// during the confirmation ceremony. It is a terminal outcome, not a
	// payment failure, and no continuation is attempted after it.
	ErrInteractionCancelled = errors.New("openpayments: interaction cancelled")

	// ErrNoMerchantPointer is returned before any network call when the
	// merchant payment pointer is not configured.
	ErrNoMerchantPointer = errors.New("openpayments: no merchant payment pointer configured")

	// ErrInvalidAmount is returned for amount strings that do not parse as
	// decimal numbers.
	ErrInvalidAmount = errors.New("openpayments: invalid amount")
)
