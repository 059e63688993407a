package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"

	"github.com/samber/oops"
)

const (
	tokenBytes         = 32
	generatedPassLen   = 24
	generatedPassChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"
)

// newToken returns a random hex token and the SHA-256 hash that is stored in
// its place.
func newToken() (token, hash string, err error) {
	b := make([]byte, tokenBytes)
	if _, err = rand.Read(b); err != nil {
		return "", "", oops.Code("IDENTITY_TOKEN_GENERATE_FAILED").Wrap(err)
	}
	token = hex.EncodeToString(b)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// tokenMatches compares a plaintext token with a stored hash in constant time.
func tokenMatches(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(hash)) == 1
}

func generatePassword() (string, error) {
	out := make([]byte, generatedPassLen)
	limit := big.NewInt(int64(len(generatedPassChars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", oops.Code("IDENTITY_PASSWORD_GENERATE_FAILED").Wrap(err)
		}
		out[i] = generatedPassChars[n.Int64()]
	}
	return string(out), nil
}
