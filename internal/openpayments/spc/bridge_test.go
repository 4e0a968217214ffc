package spc_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme-commerce/storefront-api/internal/openpayments/spc"
)

func TestCeremonyCompleteOnce(t *testing.T) {
	var outcomes []bool
	ceremony := spc.NewCeremony(json.RawMessage(`{}`), func(ok bool) {
		outcomes = append(outcomes, ok)
	})

	assert.False(t, ceremony.Completed())
	ceremony.Complete(true)
	ceremony.Complete(false)
	ceremony.Complete(true)

	assert.True(t, ceremony.Completed())
	assert.Equal(t, []bool{true}, outcomes)
}

func TestStaticConfirm(t *testing.T) {
	confirmer := &spc.Static{Assertion: json.RawMessage(`{"id":"cred-1"}`)}

	ceremony, err := confirmer.Confirm(t.Context(), spc.Prompt{Challenge: "c", Amount: "10.00"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"cred-1"}`, string(ceremony.Assertion))

	ceremony.Complete(false)
	assert.Equal(t, []bool{false}, confirmer.Outcomes)
}

func TestStaticConfirmCancelled(t *testing.T) {
	confirmer := &spc.Static{Cancel: true}

	_, err := confirmer.Confirm(t.Context(), spc.Prompt{})
	assert.ErrorIs(t, err, spc.ErrCancelled)
}

func TestStaticConfirmExpiredContext(t *testing.T) {
	confirmer := &spc.Static{}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := confirmer.Confirm(ctx, spc.Prompt{})
	assert.ErrorIs(t, err, spc.ErrCancelled)
}
