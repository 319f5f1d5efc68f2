// Package assets maps logical static asset names (css/app.css) to the
// content-hashed files listed in manifest.json.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
)

// ManifestName is the manifest file at the root of the static filesystem.
const ManifestName = "manifest.json"

// AssetResolver resolves logical asset names to hashed filenames.
type AssetResolver struct {
	fsys   fs.FS
	path   string
	reload bool
	logger *slog.Logger

	mu       sync.RWMutex
	manifest map[string]string
}

// Options configures an AssetResolver.
type Options struct {
	// FS holds the manifest; usually the static filesystem.
	FS fs.FS
	// ManifestPath defaults to ManifestName.
	ManifestPath string
	// ReloadOnResolve re-reads the manifest on every lookup (dev mode).
	ReloadOnResolve bool
	Logger          *slog.Logger
}

// NewAssetResolver loads the manifest once. A missing manifest is not an
// error: every asset then resolves to its logical name.
func NewAssetResolver(opts Options) (*AssetResolver, error) {
	if opts.FS == nil {
		return nil, errors.New("assets: filesystem is required")
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = ManifestName
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ar := &AssetResolver{
		fsys:   opts.FS,
		path:   opts.ManifestPath,
		reload: opts.ReloadOnResolve,
		logger: logger,
	}
	return ar, ar.Reload()
}

// Reload re-reads the manifest.
func (ar *AssetResolver) Reload() error {
	manifest, err := readManifest(ar.fsys, ar.path)
	if err != nil {
		return err
	}
	ar.mu.Lock()
	ar.manifest = manifest
	ar.mu.Unlock()
	return nil
}

func readManifest(fsys fs.FS, path string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read asset manifest: %w", err)
	}
	manifest := map[string]string{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse asset manifest %s: %w", path, err)
	}
	return manifest, nil
}

// Resolve returns the public URL for a logical asset name.
func (ar *AssetResolver) Resolve(logicalName string) string {
	if ar == nil {
		return "/static/" + logicalName
	}
	if ar.reload {
		if err := ar.Reload(); err != nil {
			ar.logger.Error("failed to reload asset manifest",
				slog.String("manifest", ar.path),
				slog.Any("error", err),
			)
		}
	}
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if hashed, ok := ar.manifest[logicalName]; ok {
		return "/static/" + hashed
	}
	return "/static/" + logicalName
}
