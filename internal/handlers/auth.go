package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/webauth/internal/formroute"
	"github.com/nfrund/webauth/internal/middleware"
	"github.com/nfrund/webauth/internal/rendering"
	"github.com/nfrund/webauth/internal/storage"
	"github.com/nfrund/webauth/internal/view"
	"github.com/nfrund/webauth/internal/view/dto/auth"
	"github.com/nfrund/webauth/web/src/templates/layouts"
	"github.com/nfrund/webauth/web/src/templates/pages"
)

const (
	msgInvalidForm  = "Введіть код з Telegram/SMS або пароль 2FA."
	msgCodeReceived = "Код отримано. Якщо бот просить пароль 2FA, введіть його тут."
	pageTitle       = "Вхід в акаунт"

	// builtPage is the entry point of a front-end build in WEB_AUTH_DIST.
	builtPage = "index.html"
)

// CredentialSink accepts the credentials posted for a session token.
// It reports false when the token does not belong to a live login.
type CredentialSink interface {
	SubmitWeb(ctx context.Context, token, code, password string) bool
}

// AuthHandler serves the web login form and receives its submissions.
type AuthHandler struct {
	sink     CredentialSink
	renderer rendering.Renderer
	dist     storage.Reader
}

// NewAuthHandler creates a new AuthHandler. dist holds a front-end build
// whose index.html replaces the server-rendered form; it may be nil.
func NewAuthHandler(sink CredentialSink, renderer rendering.Renderer, dist storage.Reader) *AuthHandler {
	return &AuthHandler{
		sink:     sink,
		renderer: renderer,
		dist:     dist,
	}
}

// LoginGet renders the login form (GET /auth/*). The form posts back to the
// path derived from the token in the current URL.
func (h *AuthHandler) LoginGet(c echo.Context) error {
	if h.dist != nil {
		served, err := h.serveBuiltPage(c)
		if served || err != nil {
			return err
		}
	}

	// The escaped path is what the browser sees in location.pathname.
	route := formroute.Resolve(c.Request().URL.EscapedPath())
	flashes := view.GetFlashData(c)

	page := layouts.Base(pageTitle, flashes, pages.Login(auth.LoginData{
		Action: route.Action,
		Token:  route.Token,
	}))
	return h.renderer.RenderPage(c, http.StatusOK, page)
}

// serveBuiltPage streams index.html from the front-end build. It reports
// false when the build has no index.html.
func (h *AuthHandler) serveBuiltPage(c echo.Context) (bool, error) {
	rc, err := h.dist.Get(c.Request().Context(), builtPage)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer rc.Close()
	return true, c.Stream(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, rc)
}

// LoginPost hands the submitted code and password to the pending login that
// owns the token (POST /auth/*) and renders the outcome.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	route := formroute.Resolve(c.Request().URL.EscapedPath())

	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Unreadable web login form", "error", err)
		view.SetFlashError(c, msgInvalidForm)
		return c.Redirect(http.StatusSeeOther, route.Action)
	}
	if err := c.Validate(&req); err != nil {
		logger.Info("Web login form failed validation", "error", err)
		view.SetFlashError(c, msgInvalidForm)
		return c.Redirect(http.StatusSeeOther, route.Action)
	}

	ok := false
	if route.HasToken() {
		ok = h.sink.SubmitWeb(ctx, route.Token, req.Code, req.Password)
	}
	if !ok {
		logger.Warn("Web login posted to an unknown link", "has_token", route.HasToken())
	}
	if ok && req.Code != "" {
		// Shown if the user reopens the link to add the 2FA password.
		view.SetFlashSuccess(c, msgCodeReceived)
	}

	page := layouts.Base(pageTitle, view.FlashData{}, pages.Result(auth.ResultData{OK: ok}))
	return h.renderer.RenderPage(c, http.StatusOK, page)
}
