package server

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/webauth/internal/config"
	"github.com/nfrund/webauth/internal/handlers"
	appmiddleware "github.com/nfrund/webauth/internal/middleware"
	"github.com/nfrund/webauth/internal/rendering"
	"github.com/nfrund/webauth/internal/storage"
)

// Dependencies holds the services the HTTP layer needs.
type Dependencies struct {
	Flows    handlers.CredentialSink
	Assets   storage.Reader
	Renderer rendering.Renderer
	// Dist is the root of a front-end build; nil serves the built-in form.
	Dist storage.Reader
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E            *echo.Echo
	Cfg          config.Provider
	authHandler  *handlers.AuthHandler
	assetHandler *handlers.AssetHandler
}

// New creates a new Server instance with middleware configured and routes registered.
func New(cfg config.Provider, deps Dependencies) *Server {
	renderer := deps.Renderer
	if renderer == nil {
		renderer = rendering.NewUniversalRenderer()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	if r, ok := renderer.(echo.Renderer); ok {
		e.Renderer = r
	}
	setupErrorHandling(e)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.RequestLoggerWithConfig(requestLogConfig()))

	// Flash messages live in a short-lived cookie session.
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	s := &Server{
		E:            e,
		Cfg:          cfg,
		authHandler:  handlers.NewAuthHandler(deps.Flows, renderer, deps.Dist),
		assetHandler: handlers.NewAssetHandler(deps.Assets),
	}
	s.RegisterRoutes()
	return s
}
