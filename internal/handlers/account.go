package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/domain/auth_errors"
	"github.com/nfrund/accounttabs/internal/forms"
	"github.com/nfrund/accounttabs/internal/logging"
	"github.com/nfrund/accounttabs/internal/middleware"
	"github.com/nfrund/accounttabs/internal/nonce"
	"github.com/nfrund/accounttabs/internal/tabs"
	"github.com/nfrund/accounttabs/internal/view"
	"github.com/nfrund/accounttabs/internal/view/dto/account"
	"github.com/nfrund/accounttabs/web/src/templates/layouts"
	"github.com/nfrund/accounttabs/web/src/templates/pages"
)

// MsgLoggedOut is shown after a successful logout.
const MsgLoggedOut = "You have been logged out."

// NonceIssuer creates anti-forgery tokens for the rendered forms.
type NonceIssuer interface {
	Create(action, seed string) string
}

// AccountService is what the account page needs from the identity provider
// beyond form handling.
type AccountService interface {
	tabs.TokenChecker
	EndSession(ctx context.Context, token string) error
}

// AccountConfig holds the site settings the account page renders with.
type AccountConfig struct {
	SiteName         string
	AccountPath      string
	PrivacyPolicyURL string
	GeneratePassword bool
}

// AccountHandler serves the account page and its form submissions.
type AccountHandler struct {
	router  *forms.Router
	service AccountService
	nonces  NonceIssuer
	cfg     AccountConfig
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(router *forms.Router, service AccountService, nonces NonceIssuer, cfg AccountConfig) *AccountHandler {
	return &AccountHandler{router: router, service: service, nonces: nonces, cfg: cfg}
}

// LogoutPath is the logout endpoint below the account page.
func (h *AccountHandler) LogoutPath() string {
	return h.cfg.AccountPath + "/logout"
}

// AccountGet renders the dashboard for signed-in customers and the tabbed
// forms for everyone else (GET /my-account).
func (h *AccountHandler) AccountGet(c echo.Context) error {
	notices := view.DrainNotices(c)

	if acct, ok := middleware.CurrentAccount(c); ok {
		content := pages.Dashboard(account.DashboardData{
			SiteName:  h.cfg.SiteName,
			Username:  acct.Username,
			Email:     acct.Email,
			LogoutURL: h.LogoutPath(),
			Notices:   notices,
		})
		return c.Render(http.StatusOK, "", layouts.Base("My account", h.cfg.SiteName, content))
	}

	ctx := c.Request().Context()
	q := tabs.ParseQuery(c.QueryParams())
	state := tabs.Compute(ctx, q, notices, h.service)

	seed := view.NonceSeed(c)
	data := account.PageData{
		SiteName:  h.cfg.SiteName,
		ActionURL: c.Request().URL.RequestURI(),
		State:     state,
		Notices:   notices,
		Nonces: account.Nonces{
			Login:         h.nonces.Create(nonce.ActionLogin, seed),
			Register:      h.nonces.Create(nonce.ActionRegister, seed),
			LostPassword:  h.nonces.Create(nonce.ActionLostPassword, seed),
			ResetPassword: h.nonces.Create(nonce.ActionResetPassword, seed),
		},
		GeneratePassword: h.cfg.GeneratePassword,
		PrivacyPolicyURL: h.cfg.PrivacyPolicyURL,
	}
	if state.ActiveTab == domain.TabResetConfirm {
		data.ResetKey = q.Key
		data.ResetLogin = q.Login
	}

	return c.Render(http.StatusOK, "", layouts.Base("My account", h.cfg.SiteName, pages.AccountPage(data)))
}

// AccountPost routes a form submission (POST /my-account). Requests that no
// handler claims are rendered exactly like a GET.
func (h *AccountHandler) AccountPost(c echo.Context) error {
	if _, ok := middleware.CurrentAccount(c); ok {
		return c.Redirect(http.StatusSeeOther, h.cfg.AccountPath)
	}

	values, err := c.FormParams()
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("Unreadable form submission", "error", err)
		return h.AccountGet(c)
	}

	out, handled := h.router.Route(c.Request().Context(), forms.Submission{
		Values: values,
		Seed:   view.ExistingNonceSeed(c),
	})
	if !handled {
		return h.AccountGet(c)
	}
	return h.apply(c, out)
}

func (h *AccountHandler) apply(c echo.Context, out forms.Outcome) error {
	if out.Err != nil && auth_errors.KindOf(out.Err) == auth_errors.ErrProvider {
		logging.FromContext(c.Request().Context()).Error("Identity provider failure", "form", out.Form, "error", out.Err)
	}
	if out.Session != nil {
		setAuthCookie(c, out.Session)
	}
	if out.Notice != nil {
		view.AddNotice(c, *out.Notice)
	}
	redirect := out.Redirect
	if redirect == "" {
		redirect = h.cfg.AccountPath
	}
	return c.Redirect(http.StatusSeeOther, redirect)
}

// LogoutPost ends the current session (POST /my-account/logout).
func (h *AccountHandler) LogoutPost(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.AuthCookieName); err == nil && cookie.Value != "" {
		if err := h.service.EndSession(c.Request().Context(), cookie.Value); err != nil {
			logging.FromContext(c.Request().Context()).Error("Failed to end session", "error", err)
		}
	}
	setAuthCookie(c, nil)
	view.AddInfo(c, domain.FormNone, MsgLoggedOut)
	return c.Redirect(http.StatusSeeOther, h.cfg.AccountPath)
}

// LostPasswordGet sends the browser to the reset request tab
// (GET /lost-password).
func (h *AccountHandler) LostPasswordGet(c echo.Context) error {
	target := forms.AccountURL(h.cfg.AccountPath, url.Values{"action": {tabs.ActionLostPassword}})
	return c.Redirect(http.StatusFound, target)
}

// setAuthCookie sets the session cookie, or expires it when session is nil.
// Remembered sessions outlive the browser; others are session cookies.
func setAuthCookie(c echo.Context, session *domain.Session) {
	cookie := &http.Cookie{
		Name:     middleware.AuthCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case session == nil:
		cookie.MaxAge = -1
	case session.Remember:
		cookie.Value = session.Token
		cookie.Expires = session.ExpiresAt.UTC()
	default:
		cookie.Value = session.Token
	}
	c.SetCookie(cookie)
}

// Health reports liveness (GET /health).
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
