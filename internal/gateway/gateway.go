// Package gateway runs read-only work against individual SQLite files.
//
// Every database is opened through Gateway.WithDatabase, which hands the
// caller a Handle scoped to one call and closes it on every exit path.
package gateway

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	// Register the sqlite driver.
	_ "modernc.org/sqlite"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// Defaults for Config.
const (
	DefaultQueryTimeout         = 30 * time.Second
	DefaultAggregateConcurrency = 8
	driverName                  = "sqlite"
)

// Observer receives query and handle events. internal/metrics provides the
// Prometheus implementation.
type Observer interface {
	ObserveQuery(op string, elapsed time.Duration, err error)
	HandleOpened()
	HandleClosed()
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(string, time.Duration, error) {}
func (nopObserver) HandleOpened()                             {}
func (nopObserver) HandleClosed()                             {}

// Resolver maps a client-supplied database identifier onto a file path.
// catalog.Resolver implements it.
type Resolver interface {
	Resolve(rel string) (string, error)
}

// Config holds configuration for a Gateway.
type Config struct {
	// QueryTimeout bounds ad-hoc statements. Zero disables the bound.
	QueryTimeout time.Duration
	// AggregateConcurrency bounds how many databases the earliest-date
	// aggregation opens at once.
	AggregateConcurrency int
	Logger               *slog.Logger
	Observer             Observer
}

// Gateway opens scoped read-only handles.
type Gateway struct {
	queryTimeout time.Duration
	concurrency  int
	logger       *slog.Logger
	observer     Observer
	open         func(ctx context.Context, path string) (*sql.DB, error)
}

// New creates a Gateway.
func New(cfg Config) *Gateway {
	g := &Gateway{
		queryTimeout: cfg.QueryTimeout,
		concurrency:  cfg.AggregateConcurrency,
		logger:       cfg.Logger,
		observer:     cfg.Observer,
		open:         openReadOnly,
	}
	if g.concurrency <= 0 {
		g.concurrency = DefaultAggregateConcurrency
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.observer == nil {
		g.observer = nopObserver{}
	}
	return g
}

// DSN returns the driver connection string that opens path read-only with
// query_only enforced on every connection.
func DSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: "mode=ro&_pragma=query_only(1)",
	}
	return u.String()
}

func openReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return nil, err
	}
	// One connection per handle, so a page and its count share a connection.
	db.SetMaxOpenConns(1)

	// Opening is lazy; reading the schema cookie forces the file header to
	// be parsed so non-database files fail here.
	var version int64
	if err := db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&version); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Open opens a read-only handle on path. The caller must Close it; prefer
// WithDatabase.
func (g *Gateway) Open(ctx context.Context, path string) (*Handle, error) {
	start := time.Now()
	db, err := g.open(ctx, path)
	if err != nil {
		err = core.Wrap(core.KindOpenFailure, "open", "unable to open database", err)
		g.observer.ObserveQuery("open", time.Since(start), err)
		return nil, err
	}
	g.observer.HandleOpened()
	g.logger.Debug("opened database", "path", path)

	return &Handle{
		db:           db,
		path:         path,
		queryTimeout: g.queryTimeout,
		observer:     g.observer,
		onClose:      g.observer.HandleClosed,
	}, nil
}

// WithDatabase opens path read-only, runs fn with the handle, and closes the
// handle whether fn succeeds, fails or panics.
func (g *Gateway) WithDatabase(ctx context.Context, path string, fn func(*Handle) error) error {
	h, err := g.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			g.logger.Warn("failed to close database", "path", path, "error", cerr)
		}
	}()
	return fn(h)
}
