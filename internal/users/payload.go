package users

import (
	"bytes"
	"encoding/json"
)

const (
	msgRequired     = "Users require username, provider and auth to be specified!"
	msgAuthLevel    = "Users require auth to be one of admin, write"
	msgRefAtRoot    = "Reference (_ref) at root of object is not acceptable"
	msgInvalidJSON  = "Request body must be a JSON object"
	msgInvalidKey   = "apikey must be true or an existing api key hash"
	msgKeyMismatch  = "Username and provider do not match the user id"
	refField        = "_ref"
	apiKeyGenerate  = "true"
	apiKeyDisabled  = "false"
	apiKeyNullValue = "null"
)

// Payload is the body of a create or replace request.
type Payload struct {
	Username string `json:"username" validate:"required"`
	Provider string `json:"provider" validate:"required"`
	Auth     string `json:"auth" validate:"required,oneof=admin write"`
	Password string `json:"password,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Name     string `json:"name,omitempty"`

	// APIKey is true to generate a key, or an existing hash to keep.
	APIKey json.RawMessage `json:"apikey,omitempty"`
}

// DecodePayload parses a request body. A reference at the document root is rejected.
func DecodePayload(body []byte) (*Payload, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil || root == nil {
		return nil, invalid(msgInvalidJSON)
	}

	if _, ok := root[refField]; ok {
		return nil, invalid(msgRefAtRoot)
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, invalid(msgInvalidJSON)
	}

	return &p, nil
}

// apiKeyAction returns whether a key must be generated, or the hash to keep.
func (p *Payload) apiKeyAction() (generate bool, hash string, err error) {
	raw := string(bytes.TrimSpace(p.APIKey))

	switch raw {
	case "", apiKeyDisabled, apiKeyNullValue:
		return false, "", nil
	case apiKeyGenerate:
		return true, "", nil
	}

	var s string
	if err := json.Unmarshal(p.APIKey, &s); err != nil || !isHash(s) {
		return false, "", invalid(msgInvalidKey)
	}

	return false, s, nil
}
