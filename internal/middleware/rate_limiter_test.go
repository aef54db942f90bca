package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postFrom(e *echo.Echo, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/Z9", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	e.POST("/auth/:token", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}, RateLimiter())

	t.Run("allows requests within the burst", func(t *testing.T) {
		rec := postFrom(e, "192.0.2.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("blocks requests exceeding the burst", func(t *testing.T) {
		const burst = 10
		for i := 0; i < burst; i++ {
			rec := postFrom(e, "192.0.2.2:1234")
			require.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
		}

		rec := postFrom(e, "192.0.2.2:1234")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too many requests")
	})

	t.Run("limits are tracked per client", func(t *testing.T) {
		rec := postFrom(e, "192.0.2.3:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
