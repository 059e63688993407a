package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/accounttabs/internal/config"
	"github.com/nfrund/accounttabs/internal/database"
	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/email"
	"github.com/nfrund/accounttabs/internal/forms"
	"github.com/nfrund/accounttabs/internal/handlers"
	"github.com/nfrund/accounttabs/internal/identity"
	"github.com/nfrund/accounttabs/internal/middleware"
	"github.com/nfrund/accounttabs/internal/nonce"
	"github.com/nfrund/accounttabs/internal/rendering"
)

// sessionMaxAge bounds the notice and nonce-seed cookies.
const sessionMaxAge = 86400 * 7

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Repo     domain.AccountRepository
	Identity *identity.Service
	Emailer  domain.EmailSender

	closeDB        database.Closer
	accountHandler *handlers.AccountHandler
}

// New wires the account service from cfg.
func New(ctx context.Context, cfg config.Provider) (*Server, error) {
	repo, closeDB, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	emailer, err := email.NewEmailService(cfg)
	if err != nil {
		_ = closeDB(ctx)
		return nil, err
	}

	svc := identity.NewService(repo, emailer, identity.Config{
		SiteName:   cfg.GetSiteName(),
		AccountURL: cfg.GetAccountURL(),
		ResetTTL:   cfg.GetResetTokenTTL(),
	})

	secret := []byte(cfg.GetSessionSecret())
	issuer := nonce.NewIssuer(secret, nonce.WithLifetime(cfg.GetNonceLifetime()))
	router := forms.NewRouter(forms.NewHandlers(svc, forms.Config{
		AccountURL:       cfg.GetAccountURL(),
		GeneratePassword: cfg.GetRegistrationGeneratePassword(),
	}), issuer)
	accountHandler := handlers.NewAccountHandler(router, svc, issuer, handlers.AccountConfig{
		SiteName:         cfg.GetSiteName(),
		AccountPath:      cfg.GetAccountPath(),
		PrivacyPolicyURL: cfg.GetPrivacyPolicyURL(),
		GeneratePassword: cfg.GetRegistrationGeneratePassword(),
	})

	e := echo.New()
	e.HideBanner = true
	e.Renderer = rendering.NewNodeRenderer()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.Auth(svc))

	s := &Server{
		E:              e,
		Cfg:            cfg,
		Repo:           repo,
		Identity:       svc,
		Emailer:        emailer,
		closeDB:        closeDB,
		accountHandler: accountHandler,
	}
	s.RegisterRoutes()

	slog.Info("Server configured",
		"account_url", cfg.GetAccountURL(),
		"db_driver", cfg.GetDBDriver(),
		"email_provider", cfg.GetEmailProvider(),
	)
	return s, nil
}

// Close releases the account store.
func (s *Server) Close(ctx context.Context) error {
	if s.closeDB == nil {
		return nil
	}
	return s.closeDB(ctx)
}
