package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is returned for missing files and for paths escaping the root.
var ErrNotFound = errors.New("asset not found")

// AferoStore serves read-only files from an afero filesystem rooted at the asset directory.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// EmbeddedFS exposes the root directory of an embedded filesystem through afero.
func EmbeddedFS(efs fs.FS, root string) (afero.Fs, error) {
	sub, err := fs.Sub(efs, root)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s: %w", root, err)
	}
	return afero.FromIOFS{FS: sub}, nil
}

// DirFS exposes dir on disk as a read-only filesystem that cannot be escaped.
func DirFS(dir string) afero.Fs {
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Overlay reads from top first and falls back to base. Neither is written to.
func Overlay(base, top afero.Fs) afero.Fs {
	return afero.NewReadOnlyFs(afero.NewCopyOnWriteFs(base, top))
}

// Get opens a file for reading. name is a slash separated path relative to the root.
func (s *AferoStore) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	clean, ok := cleanName(name)
	if !ok {
		return nil, ErrNotFound
	}

	info, err := s.fs.Stat(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", clean, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	return s.fs.OpenFile(clean, os.O_RDONLY, 0)
}

// cleanName rejects absolute paths, parent references and empty names.
func cleanName(name string) (string, bool) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}
	clean := path.Clean(name)
	if clean == "." {
		return "", false
	}
	return clean, true
}
