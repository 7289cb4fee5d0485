package gateway

import (
	"database/sql"
	"sync"
	"time"
)

// Handle is a read-only connection to one database file. It is owned by the
// call that opened it and must not be shared across requests.
type Handle struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
	observer     Observer
	onClose      func()
	closeOnce    sync.Once
}

// NewHandle wraps an already opened database. It is used by tests and by
// callers that manage their own connections.
func NewHandle(db *sql.DB, path string) *Handle {
	return &Handle{db: db, path: path, observer: nopObserver{}}
}

// Path returns the file the handle was opened on.
func (h *Handle) Path() string {
	return h.path
}

// DB returns the underlying connection pool.
func (h *Handle) DB() *sql.DB {
	return h.db
}

// Close releases the handle. It is safe to call more than once.
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		err = h.db.Close()
		if h.onClose != nil {
			h.onClose()
		}
	})
	return err
}

// observe records the outcome of op started at start and classifies err.
func (h *Handle) observe(op string, start time.Time, err error) error {
	err = classify(op, err)
	h.observer.ObserveQuery(op, time.Since(start), err)
	return err
}
