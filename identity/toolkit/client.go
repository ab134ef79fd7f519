// Package toolkit talks to a hosted identity toolkit over its REST API
// (accounts:signUp, accounts:signInWithPassword, accounts:signInWithIdp).
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayomtuase/julieth/identity"
)

const DefaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

const defaultTimeout = 10 * time.Second

var _ identity.Provider = (*Client)(nil)

type Client struct {
	endpoint   string
	apiKey     string
	requestURI string
	httpClient *http.Client
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRequestURI sets the continue uri sent with federated sign-ins.
func WithRequestURI(uri string) Option {
	return func(c *Client) {
		c.requestURI = uri
	}
}

func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("toolkit: api key is required")
	}
	c := &Client{
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
		requestURI: "http://localhost",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody            string `json:"postBody"`
	RequestURI          string `json:"requestUri"`
	ReturnIdpCredential bool   `json:"returnIdpCredential"`
	ReturnSecureToken   bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	IDToken     string `json:"idToken"`
	ProviderID  string `json:"providerId"`
	// signInWithIdp answers 200 with this set when the email belongs to
	// another sign-in method.
	NeedConfirmation bool `json:"needConfirmation"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateAccount(ctx context.Context, email, password string) (*identity.Identity, error) {
	var resp accountResponse
	if err := c.call(ctx, "accounts:signUp", passwordRequest{email, password, true}, &resp); err != nil {
		return nil, err
	}
	return resp.identity(identity.ProviderPassword), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	var resp accountResponse
	if err := c.call(ctx, "accounts:signInWithPassword", passwordRequest{email, password, true}, &resp); err != nil {
		return nil, err
	}
	return resp.identity(identity.ProviderPassword), nil
}

func (c *Client) SignInFederated(ctx context.Context, cred identity.Credential) (*identity.Identity, error) {
	body := url.Values{}
	body.Set("providerId", cred.ProviderID)
	if cred.IDToken != "" {
		body.Set("id_token", cred.IDToken)
	} else {
		body.Set("access_token", cred.AccessToken)
	}

	var resp accountResponse
	req := idpRequest{
		PostBody:            body.Encode(),
		RequestURI:          c.requestURI,
		ReturnIdpCredential: true,
		ReturnSecureToken:   true,
	}
	if err := c.call(ctx, "accounts:signInWithIdp", req, &resp); err != nil {
		return nil, err
	}
	if resp.NeedConfirmation {
		return nil, identity.NewError(identity.AccountExists, "", nil)
	}
	return resp.identity(cred.ProviderID), nil
}

// SignOut has no server side counterpart: the id token is a bearer token and
// dropping it ends the session.
func (c *Client) SignOut(ctx context.Context, id *identity.Identity) error {
	return nil
}

func (c *Client) call(ctx context.Context, method string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return identity.NewError(identity.Unknown, "", err)
	}

	u := fmt.Sprintf("%s/%s?key=%s", c.endpoint, method, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return identity.NewError(identity.Unknown, "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error.Message == "" {
			if resp.StatusCode >= 500 {
				return identity.NewError(identity.NetworkFailure, "", fmt.Errorf("%s: status %d", method, resp.StatusCode))
			}
			return identity.NewError(identity.Unknown, "", fmt.Errorf("%s: status %d", method, resp.StatusCode))
		}
		return mapError(er.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return identity.NewError(identity.Unknown, "", fmt.Errorf("%s: decode response: %w", method, err))
	}
	return nil
}

// mapError turns a toolkit error message such as
// "WEAK_PASSWORD : Password should be at least 6 characters" into an identity error.
func mapError(raw string) *identity.Error {
	code, detail, _ := strings.Cut(raw, ":")
	code = strings.TrimSpace(code)
	detail = strings.TrimSpace(detail)
	cause := fmt.Errorf("toolkit: %s", raw)

	switch code {
	case "EMAIL_EXISTS", "FEDERATED_USER_ID_ALREADY_LINKED":
		return identity.NewError(identity.AccountExists, "", cause)
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL":
		return identity.NewError(identity.InvalidCredentials, "", cause)
	case "INVALID_IDP_RESPONSE":
		return identity.NewError(identity.InvalidCredentials, "The sign-in provider rejected the credential", cause)
	default:
		return identity.NewError(identity.Unknown, detail, cause)
	}
}

func (r accountResponse) identity(providerID string) *identity.Identity {
	name := r.DisplayName
	if name == "" {
		name = r.FullName
	}
	return &identity.Identity{
		UID:         r.LocalID,
		Email:       r.Email,
		DisplayName: name,
		PhoneNumber: r.PhoneNumber,
		ProviderID:  providerID,
		AccessToken: r.IDToken,
	}
}
