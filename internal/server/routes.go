package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/webauth/internal/middleware"
)

// RegisterRoutes sets up all the application routes. Anything not listed
// here, including "/", answers 404.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/assets/*", s.assetHandler.Get)

	s.E.GET("/auth/*", s.authHandler.LoginGet)
	s.E.POST("/auth/*", s.authHandler.LoginPost, rateLimiter)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
