package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

var ErrNoSession = errors.New("session: no session cookie")

// Cookies signs and encrypts the values this service keeps in the browser:
// the session id and the short lived federated sign-in state.
type Cookies struct {
	codec  *securecookie.SecureCookie
	name   string
	secure bool
	maxAge time.Duration
}

// NewCookies wants a hash key of 32 or 64 bytes and a block key of 16, 24 or
// 32 bytes (AES-128/192/256).
func NewCookies(name string, hashKey, blockKey []byte, secure bool, maxAge time.Duration) *Cookies {
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(maxAge.Seconds()))
	return &Cookies{codec: codec, name: name, secure: secure, maxAge: maxAge}
}

// SID returns the session id carried by r.
func (c *Cookies) SID(r *http.Request) (string, error) {
	var sid string
	if err := c.Read(r, c.name, &sid); err != nil {
		return "", err
	}
	if _, err := uuid.Parse(sid); err != nil {
		return "", ErrNoSession
	}
	return sid, nil
}

// Issue sets a cookie with a new session id and returns the id.
func (c *Cookies) Issue(w http.ResponseWriter) (string, error) {
	sid := uuid.NewString()
	if err := c.Write(w, c.name, sid, c.maxAge); err != nil {
		return "", err
	}
	return sid, nil
}

// Write encodes value into the cookie name.
func (c *Cookies) Write(w http.ResponseWriter, name string, value any, maxAge time.Duration) error {
	encoded, err := c.codec.Encode(name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read decodes the cookie name into dst.
func (c *Cookies) Read(r *http.Request, name string, dst any) error {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ErrNoSession
	}
	return c.codec.Decode(name, cookie.Value, dst)
}

// Clear expires the cookie name.
func (c *Cookies) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
