package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cloudygo/internal/common"
)

// Conn is a lifecycle-managed database handle. It is created once at startup,
// passed explicitly to whoever needs the database, and opened on demand by
// EnsureConnected.
type Conn struct {
	driver string
	dsn    string

	// openDB is a seam for tests.
	openDB func(driver, dsn string) (*sql.DB, error)

	mu sync.Mutex
	db *sql.DB
}

// NewConn returns an unconnected handle for the given driver and DSN.
func NewConn(driver, dsn string) *Conn {
	return &Conn{driver: driver, dsn: dsn, openDB: sql.Open}
}

// Wrap returns a handle that is already connected to db.
func Wrap(db *sql.DB) *Conn {
	return &Conn{openDB: sql.Open, db: db}
}

// EnsureConnected opens and pings the database unless that already
// succeeded, in which case it returns the existing *sql.DB. A failed attempt
// leaves the handle disconnected so a later call can retry.
func (c *Conn) EnsureConnected(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	if c.dsn == "" {
		return nil, fmt.Errorf("%w: database DSN is not set", common.ErrConfiguration)
	}

	db, err := c.openDB(c.driver, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	c.db = db
	return db, nil
}

// Connected reports whether EnsureConnected has succeeded.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db != nil
}

// Close releases the underlying pool. It is safe to call on a handle that
// never connected.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
