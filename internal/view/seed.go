package view

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	accountSessionName = "account-session"
	seedKey            = "nonce_seed"
)

// NonceSeed returns the per-browser value anti-forgery tokens are bound to,
// creating and persisting it on first use.
func NonceSeed(c echo.Context) string {
	sess, err := session.Get(accountSessionName, c)
	if sess == nil {
		slog.Error("Account session unavailable", "error", err)
		return ""
	}
	if err != nil {
		slog.Warn("Account session unreadable, starting a new one", "error", err)
	}
	if seed, ok := sess.Values[seedKey].(string); ok && seed != "" {
		return seed
	}

	seed := uuid.NewString()
	sess.Values[seedKey] = seed
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save account session", "error", err)
	}
	return seed
}

// ExistingNonceSeed returns the seed already stored for this browser, or ""
// when there is none. Used when verifying, so a POST never mints a seed.
func ExistingNonceSeed(c echo.Context) string {
	sess, _ := session.Get(accountSessionName, c)
	if sess == nil {
		return ""
	}
	seed, _ := sess.Values[seedKey].(string)
	return seed
}
