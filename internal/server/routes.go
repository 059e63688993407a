package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/accounttabs/internal/handlers"
	"github.com/nfrund/accounttabs/internal/middleware"
	"github.com/nfrund/accounttabs/web"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	h := s.accountHandler
	accountPath := s.Cfg.GetAccountPath()
	rateLimiter := middleware.RateLimiter(middleware.DefaultSubmissionsPerMinute)

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, accountPath)
	})
	s.E.GET(accountPath, h.AccountGet)
	s.E.POST(accountPath, h.AccountPost, rateLimiter)
	s.E.POST(h.LogoutPath(), h.LogoutPost)
	s.E.GET("/lost-password", h.LostPasswordGet)

	s.E.GET("/health", handlers.Health)
}
