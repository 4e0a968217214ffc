package openpayments

import "encoding/json"

// GNAP grant negotiation wire types. A GrantRequest declares the access
// rights a client wants; the authorization server answers with either a
// directly usable access token or a pending grant that needs user
// interaction and a later continuation.

type GrantRequest struct {
	AccessToken AccessTokenRequest `json:"access_token"`
	Client      string             `json:"client"`
	Interact    *InteractRequest   `json:"interact,omitempty"`
}

type AccessTokenRequest struct {
	Access []AccessRequest `json:"access"`
}

type AccessRequest struct {
	Type       string   `json:"type"`
	Actions    []string `json:"actions"`
	Identifier string   `json:"identifier,omitempty"`
	Limits     *Limits  `json:"limits,omitempty"`
}

type Limits struct {
	SendAmount    *Amount `json:"sendAmount,omitempty"`
	ReceiveAmount *Amount `json:"receiveAmount,omitempty"`
}

type InteractRequest struct {
	Start []string `json:"start"`
}

type GrantResponse struct {
	AccessToken *AccessToken      `json:"access_token,omitempty"`
	Continue    *ContinueGrant    `json:"continue,omitempty"`
	Interact    *InteractResponse `json:"interact,omitempty"`
}

// Direct reports whether the grant carries an immediately usable token.
func (g *GrantResponse) Direct() bool {
	return g.AccessToken != nil && g.AccessToken.Value != ""
}

// Pending reports whether the grant requires interaction and continuation.
func (g *GrantResponse) Pending() bool {
	return g.Continue != nil && g.Continue.URI != "" &&
		g.Continue.AccessToken != nil && g.Continue.AccessToken.Value != ""
}

type AccessToken struct {
	Value string `json:"value"`
}

type ContinueGrant struct {
	AccessToken *AccessToken `json:"access_token"`
	URI         string       `json:"uri"`
}

type InteractResponse struct {
	SPC *SPCChallenge `json:"spc,omitempty"`
}

// SPCChallenge is the interaction payload of an SPC-started grant: the
// challenge and the candidate credentials the browser ceremony may use.
type SPCChallenge struct {
	CredentialIDs []string `json:"credential_ids"`
	Challenge     string   `json:"challenge"`
}

// continueGrantPayload carries the credential assertion to the grant's
// continuation endpoint.
type continueGrantPayload struct {
	PublicKeyCred json.RawMessage `json:"public_key_cred"`
}
