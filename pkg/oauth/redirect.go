// Package oauth parses the redirect the identity provider sends the
// control panel back to after a Twitch implicit-grant flow.
package oauth

import (
	"errors"
	"net/url"
	"strings"
)

// tokenTypeBearer is the only token type the integration accepts.
const tokenTypeBearer = "bearer"

// stateBot is the correlation token marking the secondary (bot) identity
// flow.
const stateBot = "bot"

// Result is the outcome of parsing a redirect location. Exactly one of
// Credential, ProviderError or Absent is produced per location.
type Result interface {
	redirectResult()
}

// Credential is a successful grant delivered in the URL fragment.
type Credential struct {
	AccessToken string
	Scope       string
	TokenType   string
	State       string
}

// ProviderError is a rejected grant delivered in the query string.
type ProviderError struct {
	Code        string
	Description string
}

// Absent means the location carries no grant result at all. The caller's
// contract is to send the user back to the connection-initiation flow;
// this is a recovery action, not an error.
type Absent struct{}

func (Credential) redirectResult()    {}
func (ProviderError) redirectResult() {}
func (Absent) redirectResult()        {}

// ParseRedirect classifies the current location. query and fragment are
// the raw encoded components, without the leading "?" or "#".
//
// The provider reports errors in the query string and grants in the
// fragment; the error check runs first. Extraction is permissive: a
// present-but-empty key yields an empty string, and a component that does
// not decode at all contributes nothing.
func ParseRedirect(query, fragment string) Result {
	if params := parseComponent(query); params != nil {
		if params.Has("error") && params.Has("error_description") {
			return ProviderError{
				Code:        params.Get("error"),
				Description: params.Get("error_description"),
			}
		}
	}

	if params := parseComponent(fragment); params != nil {
		if params.Has("access_token") {
			return Credential{
				AccessToken: params.Get("access_token"),
				Scope:       params.Get("scope"),
				TokenType:   params.Get("token_type"),
				State:       params.Get("state"),
			}
		}
	}

	return Absent{}
}

// parseComponent decodes one URL component. Malformed encodings degrade to
// "nothing recognized" rather than failing the whole parse.
func parseComponent(component string) url.Values {
	component = strings.TrimLeft(strings.TrimSpace(component), "?#")
	if component == "" {
		return nil
	}

	params, err := url.ParseQuery(component)
	if err != nil {
		return nil
	}

	return params
}

// ForBot reports whether the grant belongs to the secondary (bot)
// identity, which the provider round-trips in the correlation state.
func (c Credential) ForBot() bool {
	return c.State == stateBot
}

// Validate checks the parts of the grant the integration depends on.
func (c Credential) Validate() error {
	if c.AccessToken == "" {
		return errors.New("empty access token")
	}
	if !strings.EqualFold(c.TokenType, tokenTypeBearer) {
		return errors.New("unexpected token type " + c.TokenType)
	}

	return nil
}
