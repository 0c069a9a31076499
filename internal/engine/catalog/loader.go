// Package catalog maps canonical item names to marketplace-specific numeric
// identifiers (Buff goods ids, Youpin template ids, Buff phase tags).
package catalog

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

//go:embed data/items.json
var defaultFS embed.FS

const defaultFile = "data/items.json"

// Loader loads the catalog lazily and caches it. A load failure yields an
// empty catalog rather than an error so generators that depend on it simply
// find no entry.
type Loader struct {
	path   string
	logger *slog.Logger

	mu  sync.Mutex
	cat *Catalog
	err error
}

// NewLoader reads from path when it exists, otherwise from the embedded
// default catalog. The catalog stays cached until Set replaces it.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, logger: logger}
}

// Get returns the catalog, loading it on first use.
func (l *Loader) Get() *Catalog {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cat != nil {
		return l.cat
	}
	l.cat, l.err = l.load()
	if l.err != nil {
		l.logger.Error("catalog load failed, continuing without catalog", "path", l.path, "err", l.err)
		l.cat = Empty()
		return l.cat
	}
	l.logger.Debug("catalog loaded", "entries", l.cat.Len(), "path", l.path)
	return l.cat
}

// Set replaces the cached catalog, e.g. after an import.
func (l *Loader) Set(c *Catalog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cat, l.err = c, nil
}

// Path is the file the loader reads and Install targets.
func (l *Loader) Path() string {
	return l.path
}

// Lookup delegates to the loaded catalog.
func (l *Loader) Lookup(name string) (Entry, bool) {
	return l.Get().Lookup(name)
}

// LookupBase delegates to the loaded catalog.
func (l *Loader) LookupBase(name string) (Entry, bool) {
	return l.Get().LookupBase(name)
}

// HasVariants delegates to the loaded catalog.
func (l *Loader) HasVariants(name string) bool {
	return l.Get().HasVariants(name)
}

// Err reports the load error, if any. It triggers loading.
func (l *Loader) Err() error {
	l.Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loader) load() (*Catalog, error) {
	if l.path != "" {
		data, err := os.ReadFile(l.path)
		switch {
		case err == nil:
			return Parse(data)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
	}
	return Default()
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	data, err := defaultFS.ReadFile(defaultFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}
	return Parse(data)
}
