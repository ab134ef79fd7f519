// Package google implements the federated consent flow against Google with
// OAuth2 authorization code + PKCE and OpenID Connect id tokens.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/ayomtuase/julieth/crypto"
	"github.com/ayomtuase/julieth/identity"
)

const (
	DefaultIssuer = "https://accounts.google.com"

	// exchangeTimeout bounds the code exchange if the provider hangs.
	exchangeTimeout = 10 * time.Second

	// errAccessDenied is what the provider sends back when the user closes or
	// declines the consent screen.
	errAccessDenied = "access_denied"
)

var _ identity.Federation = (*Google)(nil)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Issuer       string
	Scopes       []string
}

type Google struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// New discovers the issuer endpoints and keys. It does network I/O.
func New(ctx context.Context, cfg Config) (*Google, error) {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuer, err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return NewWithVerifier(cfg, provider.Endpoint(), verifier), nil
}

// NewWithVerifier skips discovery, the endpoint and verifier are given.
func NewWithVerifier(cfg Config, endpoint oauth2.Endpoint, verifier *oidc.IDTokenVerifier) *Google {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		verifier: verifier,
	}
}

func (g *Google) Name() string {
	return "google"
}

func (g *Google) Begin() identity.Consent {
	state := crypto.Oauth2State()
	verifier := crypto.Oauth2CodeVerifier()
	u := g.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", crypto.S256Challenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return identity.Consent{URL: u, State: state, CodeVerifier: verifier}
}

type claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (g *Google) Complete(ctx context.Context, cb identity.Callback) (identity.Credential, error) {
	if cb.Error != "" {
		if cb.Error == errAccessDenied {
			return identity.Credential{}, identity.NewError(identity.PopupCancelled, "", nil)
		}
		return identity.Credential{}, identity.NewError(identity.Unknown, "", fmt.Errorf("consent error: %s", cb.Error))
	}
	if cb.State == "" || cb.State != cb.WantState {
		return identity.Credential{}, identity.NewError(identity.Unknown,
			"The sign-in request expired, please try again", errors.New("oauth2 state mismatch"))
	}
	if cb.Code == "" {
		return identity.Credential{}, identity.NewError(identity.Unknown, "", errors.New("missing authorization code"))
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := g.oauth.Exchange(ctx, cb.Code, oauth2.SetAuthURLParam("code_verifier", cb.CodeVerifier))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return identity.Credential{}, identity.NewError(identity.InvalidCredentials,
				"The sign-in provider rejected the request", err)
		}
		return identity.Credential{}, identity.Normalize(fmt.Errorf("code exchange: %w", err))
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return identity.Credential{}, identity.NewError(identity.Unknown, "", errors.New("token response has no id_token"))
	}

	idToken, err := g.verifier.Verify(ctx, rawID)
	if err != nil {
		return identity.Credential{}, identity.NewError(identity.InvalidCredentials,
			"The sign-in provider returned an invalid credential", err)
	}

	var c claims
	if err := idToken.Claims(&c); err != nil {
		return identity.Credential{}, identity.NewError(identity.Unknown, "", fmt.Errorf("id token claims: %w", err))
	}
	if c.Email == "" || !c.EmailVerified {
		return identity.Credential{}, identity.NewError(identity.InvalidCredentials,
			"Your Google account has no verified email address", nil)
	}

	return identity.Credential{
		ProviderID:  identity.ProviderGoogle,
		IDToken:     rawID,
		AccessToken: token.AccessToken,
		Subject:     c.Subject,
		Email:       c.Email,
		Name:        c.Name,
	}, nil
}
