package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by ComparePassword when the password does
// not match the stored hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// dummyHash is compared against when no account exists so that unknown and
// known emails take roughly the same time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("julieth-dummy-password"), bcrypt.MinCost)

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent
func CheckPassword(password, hash string) bool {
	return ComparePassword(password, hash) == nil
}

// ComparePassword is CheckPassword with the failure reason. An empty hash is
// compared against a dummy hash and always fails with ErrPasswordMismatch.
func ComparePassword(password, hash string) error {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return ErrPasswordMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// GenerateHash creates a bcrypt hash from a password using reasonable default cost.
// Passwords longer than 72 bytes are rejected by bcrypt.
func GenerateHash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedBytes), err
}
