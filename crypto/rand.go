package crypto

import (
	"crypto/rand"
	"math/big"
)

const (
	AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Defined in RFC 7636 (PKCE). Allowed characters: A-Z, a-z, 0-9, and the symbols -, ., _, ~.
	pkceAlphabet = AlphanumericAlphabet + "-._~"
)

// RandomString returns a string of the given length drawn uniformly from
// alphabet using crypto/rand. It panics if the system random source fails,
// there is no sane way to continue without it.
func RandomString(length int, alphabet string) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: random source failure: " + err.Error())
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}
