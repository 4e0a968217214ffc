// Package spc abstracts the browser's Secure Payment Confirmation ceremony
// behind a small capability set so the protocol engine never touches a
// platform API. The ceremony itself runs outside this process; the bridge
// only defines the data handed in and the assertion handed back.
package spc

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// CeremonyTimeout is the fixed ceiling the confirmation ceremony may run
// for, by protocol convention.
const CeremonyTimeout = 6 * time.Minute

// ErrCancelled marks a ceremony the user dismissed or that timed out. It is
// distinct from any network failure: a cancelled ceremony ends the checkout
// attempt without a continuation ever being sent.
var ErrCancelled = errors.New("spc: payment confirmation cancelled")

// Prompt binds the ceremony to the exact amount and payee being authorized.
type Prompt struct {
	Challenge     string
	CredentialIDs []string
	Amount        string
	PayeeLabel    string
}

// Ceremony is a started confirmation ceremony. The platform contract
// requires Complete to be called with the final outcome exactly once after
// the downstream continuation and payment execution resolve.
type Ceremony struct {
	// Assertion is the opaque credential assertion the user produced.
	Assertion json.RawMessage

	complete func(ok bool)
	done     bool
}

func NewCeremony(assertion json.RawMessage, complete func(ok bool)) *Ceremony {
	return &Ceremony{Assertion: assertion, complete: complete}
}

// Complete reports the checkout outcome back to the ceremony. Repeated
// calls are ignored.
func (c *Ceremony) Complete(ok bool) {
	if c.done {
		return
	}
	c.done = true
	if c.complete != nil {
		c.complete(ok)
	}
}

// Completed reports whether the ceremony outcome was signalled.
func (c *Ceremony) Completed() bool {
	return c.done
}

// Confirmer presents a confirmation ceremony and returns the resulting
// assertion, or ErrCancelled.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (*Ceremony, error)
}
