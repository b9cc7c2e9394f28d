package database

import (
	"context"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
)

// Opener creates the pool behind one connection URL
type Opener func(ctx context.Context, url string, cfg PoolConfig) (*DB, error)

// Registry owns one DB per distinct connection URL for the lifetime of
// the process (or of a test). Acquire is safe for concurrent use;
// ReleaseAll is a shutdown operation and must not race with callers
// still using a DB it handed out.
type Registry struct {
	mu     sync.Mutex
	pools  map[string]*registryEntry
	cfg    PoolConfig
	open   Opener
	logger *logrus.Logger
}

type registryEntry struct {
	mu sync.Mutex
	db *DB
}

// RegistryOption customises a Registry
type RegistryOption func(*Registry)

// WithOpener replaces the function used to open new pools
func WithOpener(open Opener) RegistryOption {
	return func(r *Registry) {
		r.open = open
	}
}

// NewRegistry creates an empty registry
func NewRegistry(cfg PoolConfig, logger *logrus.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		pools:  make(map[string]*registryEntry),
		cfg:    cfg,
		open:   NewDB,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the DB cached for rawURL, opening it on first use.
// Concurrent callers for the same URL wait for a single open; a failed
// open is not cached so a later call retries.
func (r *Registry) Acquire(ctx context.Context, rawURL string) (*DB, error) {
	r.mu.Lock()
	entry, ok := r.pools[rawURL]
	if !ok {
		entry = &registryEntry{}
		r.pools[rawURL] = entry
	}
	r.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.db != nil {
		return entry.db, nil
	}

	db, err := r.open(ctx, rawURL, r.cfg)
	if err != nil {
		return nil, err
	}
	entry.db = db

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"component": "database",
			"url":       redact(rawURL),
			"max_conns": r.cfg.MaxConns,
		}).Info("Connection pool opened")
	}
	return db, nil
}

// ReleaseAll closes every cached pool and empties the registry
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for rawURL, entry := range r.pools {
		entry.mu.Lock()
		if entry.db != nil {
			entry.db.Close()
			entry.db = nil
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{
					"component": "database",
					"url":       redact(rawURL),
				}).Info("Connection pool closed")
			}
		}
		entry.mu.Unlock()
	}
	r.pools = make(map[string]*registryEntry)
}

// Len reports how many pools are currently open
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, entry := range r.pools {
		entry.mu.Lock()
		if entry.db != nil {
			n++
		}
		entry.mu.Unlock()
	}
	return n
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
