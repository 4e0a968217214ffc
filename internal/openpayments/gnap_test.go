package openpayments

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantResponseDirect(t *testing.T) {
	var grant GrantResponse
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":{"value":"tok"}}`), &grant))
	assert.True(t, grant.Direct())
	assert.False(t, grant.Pending())
}

func TestGrantResponsePending(t *testing.T) {
	raw := `{
		"interact": {"spc": {"credential_ids": ["Y3JlZA"], "challenge": "Y2hhbGxlbmdl"}},
		"continue": {"uri": "http://auth/auth/continue/1", "access_token": {"value": "continue-tok"}}
	}`
	var grant GrantResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &grant))

	assert.False(t, grant.Direct())
	assert.True(t, grant.Pending())
	require.NotNil(t, grant.Interact.SPC)
	assert.Equal(t, []string{"Y3JlZA"}, grant.Interact.SPC.CredentialIDs)
	assert.Equal(t, "Y2hhbGxlbmdl", grant.Interact.SPC.Challenge)
}

func TestGrantResponseEmpty(t *testing.T) {
	var grant GrantResponse
	assert.False(t, grant.Direct())
	assert.False(t, grant.Pending())
}
