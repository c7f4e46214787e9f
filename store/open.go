package store

import (
	"fmt"
	"path/filepath"

	"github.com/yukitake212/first-hackathon-product/types"
)

// Backend names accepted by data.backend.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open returns the TaskStore selected by cfg.Backend. Relative file paths are
// resolved against cfg.Dir.
func Open(cfg types.DataConfig) (TaskStore, error) {
	switch cfg.Backend {
	case "", BackendFile:
		path := cfg.File
		if path == "" {
			path = defaultDataFile
		}
		if !filepath.IsAbs(path) && cfg.Dir != "" {
			path = filepath.Join(cfg.Dir, path)
		}
		s := NewFileTaskStore()
		if err := s.Initialize(map[string]string{
			dataFileKey:       path,
			dataFileFormatKey: cfg.Format,
		}); err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	case BackendSQLite:
		dir := cfg.Dir
		if dir == "" {
			dir = "."
		}
		s, err := NewSQLiteStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case BackendPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("open postgres store: data.dsn is required")
		}
		s, err := NewPostgresStore(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported data backend %q (want file, sqlite or postgres)", cfg.Backend)
	}
}
