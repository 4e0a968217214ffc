package spc

import (
	"context"
	"encoding/json"
)

// Static is a deterministic Confirmer that either approves with a fixed
// assertion or cancels. It backs tests and the checkout smoke command.
type Static struct {
	Assertion json.RawMessage
	Cancel    bool

	// Outcomes records every Complete call of ceremonies this confirmer
	// produced.
	Outcomes []bool
}

func (s *Static) Confirm(ctx context.Context, prompt Prompt) (*Ceremony, error) {
	if s.Cancel {
		return nil, ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return nil, ErrCancelled
	}
	assertion := s.Assertion
	if assertion == nil {
		assertion = json.RawMessage(`{"id":"static-credential","type":"public-key"}`)
	}
	return NewCeremony(assertion, func(ok bool) {
		s.Outcomes = append(s.Outcomes, ok)
	}), nil
}
