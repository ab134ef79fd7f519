// Package identity is the boundary to the external identity provider.
//
// Providers return an *Identity on success and an *Error on failure. Callers
// never look at provider specific error shapes, only at Error.Kind and
// Error.Message.
package identity

import (
	"context"
)

// Provider ids stored with each identity.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// Identity is the user record returned by the identity provider. It is owned
// by the provider, this service only reads it.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	ProviderID  string `json:"providerId"`
	AccessToken string `json:"-"`
}

// Greeting is the name shown on the dashboard.
func (i *Identity) Greeting() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Email
}

// Provider is implemented by the identity backends.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignInFederated(ctx context.Context, cred Credential) (*Identity, error)
	// SignOut terminates the provider side of the session.
	SignOut(ctx context.Context, id *Identity) error
}

// Credential is what a completed federated consent round trip yields. The
// claims come from a verified id token.
type Credential struct {
	ProviderID  string
	IDToken     string
	AccessToken string
	Subject     string
	Email       string
	Name        string
}

// Consent is where the user has to be sent to grant access, plus the values
// that must survive until the callback.
type Consent struct {
	URL          string
	State        string
	CodeVerifier string
}

// Callback carries the query of the provider redirect back to us. Error is the
// OAuth2 error parameter, set when the user closed or denied the consent.
type Callback struct {
	Code         string
	State        string
	WantState    string
	CodeVerifier string
	Error        string
}

// Federation runs the interactive consent flow for one third party provider.
type Federation interface {
	Name() string
	Begin() Consent
	Complete(ctx context.Context, cb Callback) (Credential, error)
}
