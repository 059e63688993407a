// Package nonce issues and verifies the per-form anti-forgery tokens that the
// account forms carry.
//
// A token is an HMAC over the form's action context, a per-browser seed and a
// time tick. A tick lasts half the configured lifetime and a token stays valid
// during the tick it was created in and the one after it, so a token lives
// between lifetime/2 and lifetime.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Action contexts of the account forms.
const (
	ActionLogin         = "login"
	ActionRegister      = "register"
	ActionLostPassword  = "lost_password"
	ActionResetPassword = "reset_password"
)

// DefaultLifetime matches the one day WordPress gives its nonces.
const DefaultLifetime = 24 * time.Hour

// MinLifetime is the shortest lifetime an Issuer accepts; shorter values are
// raised to it.
const MinLifetime = time.Minute

// tokenLen is the number of hex characters kept from the MAC.
const tokenLen = 20

// Issuer creates and verifies tokens.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithLifetime sets the maximum token lifetime. Non-positive values keep the
// default; positive values below MinLifetime are raised to it.
func WithLifetime(d time.Duration) Option {
	return func(i *Issuer) {
		switch {
		case d <= 0:
		case d < MinLifetime:
			i.lifetime = MinLifetime
		default:
			i.lifetime = d
		}
	}
}

// NewIssuer creates an Issuer keyed by secret.
func NewIssuer(secret []byte, opts ...Option) *Issuer {
	i := &Issuer{
		secret:   secret,
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Create returns the token for action bound to seed at the current tick.
func (i *Issuer) Create(action, seed string) string {
	return i.token(i.tick(), action, seed)
}

// Verify reports whether token was created for action and seed during the
// current or the previous tick.
func (i *Issuer) Verify(token, action, seed string) bool {
	if token == "" || seed == "" {
		return false
	}
	tick := i.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(token), []byte(i.token(t, action, seed))) {
			return true
		}
	}
	return false
}

func (i *Issuer) tick() int64 {
	half := i.lifetime / 2
	return i.now().UnixNano()/int64(half) + 1
}

func (i *Issuer) token(tick int64, action, seed string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(action))
	mac.Write([]byte{'|'})
	mac.Write([]byte(seed))
	return hex.EncodeToString(mac.Sum(nil))[:tokenLen]
}
