package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Kind is the closed set of failures a provider can report.
type Kind int

const (
	Unknown Kind = iota
	InvalidCredentials
	AccountExists
	NetworkFailure
	PopupCancelled
)

func (k Kind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case AccountExists:
		return "account_exists"
	case NetworkFailure:
		return "network_failure"
	case PopupCancelled:
		return "popup_cancelled"
	default:
		return "unknown"
	}
}

// Default messages per kind, used when the provider gives nothing better.
var messages = map[Kind]string{
	Unknown:            "Something went wrong, please try again",
	InvalidCredentials: "Invalid email or password",
	AccountExists:      "An account with this email address already exists",
	NetworkFailure:     "Could not reach the sign-in service, please try again",
	PopupCancelled:     "The sign-in window was closed before completing",
}

// Error is the normalized provider failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("identity: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error with the default message for kind when msg is empty.
func NewError(kind Kind, msg string, err error) *Error {
	if msg == "" {
		msg = messages[kind]
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Normalize reduces any error to an *Error. Errors already normalized are
// returned as is, transport and context errors become NetworkFailure and the
// rest Unknown.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	if isNetwork(err) {
		return NewError(NetworkFailure, "", err)
	}
	return NewError(Unknown, "", err)
}

// KindOf returns the kind of err, Unknown for non identity errors.
func KindOf(err error) Kind {
	if n := Normalize(err); n != nil {
		return n.Kind
	}
	return Unknown
}

func isNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
