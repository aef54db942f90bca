package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/webauth/internal/storage"
)

// AssetHandler serves static files for the login page (GET /assets/*).
type AssetHandler struct {
	store storage.Reader
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(store storage.Reader) *AssetHandler {
	return &AssetHandler{store: store}
}

// Get streams one asset, or 404 when it is missing or outside the asset root.
func (h *AssetHandler) Get(c echo.Context) error {
	name := c.Param("*")

	rc, err := h.store.Get(c.Request().Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
