package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	limiter := RateLimiter(3)
	e.GET("/", handler, limiter)
	e.POST("/", handler, limiter)

	do := func(method, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("blocks posts exceeding the limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusOK, do(http.MethodPost, "192.0.2.2:1234").Code, "request %d should be allowed", i+1)
		}
		rec := do(http.MethodPost, "192.0.2.2:1234")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too many requests")
	})

	t.Run("limits are per client", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(http.MethodPost, "192.0.2.3:1234").Code)
	})

	t.Run("gets are not counted", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			require.Equal(t, http.StatusOK, do(http.MethodGet, "192.0.2.4:1234").Code)
		}
	})
}
