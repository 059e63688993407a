package forms

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	fallbackUsername = "customer"
	// maxSequentialSuffix caps the 1, 2, 3, ... search before switching to
	// random suffixes.
	maxSequentialSuffix = 1000
	maxRandomAttempts   = 10
)

var errUsernamesExhausted = errors.New("no free username could be found")

// UsernameTaken reports whether a username is already in use.
type UsernameTaken func(ctx context.Context, username string) (bool, error)

// DeriveUsername picks a username from the local part of email. The base name
// is tried first, then base1, base2, ... and the first free one is returned.
func DeriveUsername(ctx context.Context, email string, taken UsernameTaken) (string, error) {
	base := SanitizeUsername(localPart(email))
	if base == "" {
		base = fallbackUsername
	}

	candidate := base
	for n := 1; n <= maxSequentialSuffix+1; n++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(n)
	}

	for range maxRandomAttempts {
		candidate = base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errUsernamesExhausted
}

func localPart(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// SanitizeUsername folds accents, lower-cases and keeps only ASCII letters,
// digits and the characters "_", "." and "-". It is safe for concurrent use.
func SanitizeUsername(s string) string {
	// A chain carries its own buffers, so each call needs a fresh one.
	foldAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".-")
}
