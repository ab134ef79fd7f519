// Package validation holds the form rules checked before any call to the
// identity provider.
package validation

import "regexp"

// Field names as posted by the login and sign-up forms.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgPasswordRequired = "Password is required"
	MsgConfirmRequired  = "Confirm Password is required"
	MsgPasswordMismatch = "Your passwords do not match"
)

// local part, "@", then at least one dot separated label before the TLD.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)*\.[^\s@.]{2,}$`)

// Errors maps a field name to its message. Empty means the input is valid.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Email returns the message for an unacceptable email, "" otherwise.
func Email(value string) string {
	if value == "" {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(value) {
		return MsgEmailInvalid
	}
	return ""
}

// Password only requires a value. Length and complexity are the provider's policy.
func Password(value string) string {
	if value == "" {
		return MsgPasswordRequired
	}
	return ""
}

// ConfirmPassword compares confirm against the password value given now, not
// against whatever the password was when confirm was typed.
func ConfirmPassword(password, confirm string) string {
	if confirm == "" {
		return MsgConfirmRequired
	}
	if confirm != password {
		return MsgPasswordMismatch
	}
	return ""
}

func SignIn(email, password string) Errors {
	errs := Errors{}
	errs.add(FieldEmail, Email(email))
	errs.add(FieldPassword, Password(password))
	return errs
}

func SignUp(email, password, confirm string) Errors {
	errs := SignIn(email, password)
	errs.add(FieldConfirmPassword, ConfirmPassword(password, confirm))
	return errs
}

func (e Errors) add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}
