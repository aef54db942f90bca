// Package app wires the web login services together.
package app

import (
	"fmt"

	"github.com/nfrund/webauth/internal/authflow"
	"github.com/nfrund/webauth/internal/config"
	"github.com/nfrund/webauth/internal/pubsub"
	"github.com/nfrund/webauth/internal/rendering"
	"github.com/nfrund/webauth/internal/server"
	"github.com/nfrund/webauth/internal/storage"
	"github.com/nfrund/webauth/web"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

// NewContainer registers every service of the web login server. Services are
// built lazily on first invocation.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})

	do.Provide(injector, func(i do.Injector) (*authflow.Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		bus := do.MustInvoke[*pubsub.WatermillBridge](i)
		return authflow.NewManager(cfg.GetFlowTTL(), bus), nil
	})

	do.Provide(injector, func(i do.Injector) (*storage.AferoStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		fs, err := assetFS(cfg.GetDistDir())
		if err != nil {
			return nil, err
		}
		return storage.NewAferoStore(fs), nil
	})

	do.Provide(injector, func(i do.Injector) (*server.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		flows := do.MustInvoke[*authflow.Manager](i)
		assets, err := do.Invoke[*storage.AferoStore](i)
		if err != nil {
			return nil, err
		}
		return server.New(cfg, server.Dependencies{
			Flows:    flows,
			Assets:   assets,
			Renderer: rendering.NewUniversalRenderer(),
			Dist:     distPages(cfg.GetDistDir()),
		}), nil
	})

	return injector
}

// assetFS serves the embedded stylesheet, overlaid with distDir/assets when
// a front-end build is configured. Files of the build win; the embedded ones
// stay reachable for the built-in form.
func assetFS(distDir string) (afero.Fs, error) {
	embedded, err := storage.EmbeddedFS(web.FS, "static")
	if err != nil {
		return nil, err
	}
	if distDir == "" {
		return embedded, nil
	}
	fs := storage.DirFS(distDir)
	if ok, err := afero.DirExists(fs, "assets"); err != nil || !ok {
		return nil, fmt.Errorf("WEB_AUTH_DIST %q has no assets directory", distDir)
	}
	return storage.Overlay(embedded, afero.NewBasePathFs(fs, "assets")), nil
}

// distPages exposes the root of the front-end build, or nil without one.
func distPages(distDir string) storage.Reader {
	if distDir == "" {
		return nil
	}
	return storage.NewAferoStore(storage.DirFS(distDir))
}
