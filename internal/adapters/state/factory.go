// Package state persists aggregate analysis results.
package state

import (
	"path/filepath"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/config"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// NewAnalysisStore opens the store configured by cfg. It returns nil when
// persistence is disabled.
func NewAnalysisStore(cfg config.StoreConfig) (*SQLiteAnalysisStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	path := cfg.Path
	if !strings.HasSuffix(path, ".db") {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".db"
	}
	return NewSQLiteAnalysisStore(path)
}

// Closeable is implemented by stores holding resources.
type Closeable interface {
	Close() error
}

// CloseStore closes s if it implements Closeable.
func CloseStore(s core.AnalysisStore) error {
	if c, ok := s.(Closeable); ok {
		return c.Close()
	}
	return nil
}
