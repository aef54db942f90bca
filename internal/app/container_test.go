package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/webauth/internal/authflow"
	"github.com/nfrund/webauth/internal/config"
	"github.com/nfrund/webauth/internal/pubsub"
	"github.com/nfrund/webauth/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:          "127.0.0.1",
		Port:          18081,
		BaseURL:       "http://127.0.0.1:18081",
		SessionSecret: "a-very-secret-key-for-testing-!",
		FlowTTL:       time.Minute,
	}
}

func TestContainer_ServesEmbeddedAssets(t *testing.T) {
	injector := NewContainer(testConfig())

	s, err := do.Invoke[*server.Server](injector)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--accent")
}

func TestContainer_SharesFlowRegistryAndPublishesEvents(t *testing.T) {
	injector := NewContainer(testConfig())

	flows := do.MustInvoke[*authflow.Manager](injector)
	bus := do.MustInvoke[*pubsub.WatermillBridge](injector)
	s := do.MustInvoke[*server.Server](injector)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan authflow.SubmittedEvent, 1)
	require.NoError(t, bus.Subscribe(ctx, authflow.TopicCredentialsSubmitted, func(ctx context.Context, msg pubsub.Message) error {
		var ev authflow.SubmittedEvent
		if err := pubsub.DecodeJSON(msg, &ev); err != nil {
			return err
		}
		events <- ev
		return nil
	}))

	token, err := flows.StartWeb(ctx, 3, "+1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/"+token, strings.NewReader("code=777"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-events:
		assert.Equal(t, int64(3), ev.UserID)
		assert.True(t, ev.HasCode)
	case <-time.After(2 * time.Second):
		t.Fatal("no submission event received")
	}
}

func TestAssetFS_DistDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "index.js"), []byte("x"), 0o644))

	fs, err := assetFS(dir)
	require.NoError(t, err)
	ok, err := afero.Exists(fs, "index.js")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = afero.Exists(fs, "app.css")
	require.NoError(t, err)
	assert.True(t, ok, "embedded stylesheet is overlaid by the build")

	_, err = assetFS(t.TempDir())
	assert.ErrorContains(t, err, "has no assets directory")
}

func TestContainer_ServesFrontendBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<script src="/assets/index.js"></script>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "index.js"), []byte("render()"), 0o644))

	cfg := testConfig()
	cfg.DistDir = dir
	s := do.MustInvoke[*server.Server](NewContainer(cfg))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/auth/Z9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="/assets/index.js"`)

	rec = get("/assets/index.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "render()", rec.Body.String())

	rec = get("/assets/app.css")
	require.Equal(t, http.StatusOK, rec.Code, "embedded stylesheet stays available")

	require.NoError(t, os.Remove(filepath.Join(dir, "index.html")))
	rec = get("/auth/Z9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/auth/Z9"`)
}
