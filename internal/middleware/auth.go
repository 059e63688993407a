package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/logging"
)

// AuthCookieName is the cookie carrying the session token.
const AuthCookieName = "auth_token"

// AccountContextKey is where Auth stores the signed-in *domain.Account.
const AccountContextKey = "account"

// SessionResolver maps a session token to its account.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Account, error)
}

// Auth resolves the auth cookie into the signed-in account. It never
// redirects: anonymous requests pass through without an account, and a stale
// cookie is cleared.
func Auth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			account, err := resolver.ResolveSession(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					logging.FromContext(ctx).Error("Failed to resolve session", "error", err)
				}
				c.SetCookie(&http.Cookie{
					Name:     AuthCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				return next(c)
			}

			c.Set(AccountContextKey, account)
			return next(c)
		}
	}
}

// CurrentAccount returns the account Auth attached to c, if any.
func CurrentAccount(c echo.Context) (*domain.Account, bool) {
	account, ok := c.Get(AccountContextKey).(*domain.Account)
	return account, ok && account != nil
}
