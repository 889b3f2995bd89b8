// Package pool hands out per-request database leases with exactly-once
// release semantics.
package pool

import (
	"errors"
	"sync"

	"github.com/oarkflow/squealx"
	"github.com/oarkflow/xid/wuid"
)

var ErrClosed = errors.New("pool: closed")

// Pool is a thin facade over the shared squealx connection pool. Each
// request acquires a Lease whose ID identifies it to the admission gate;
// releasing is idempotent so every exit path may release without
// double-release hazards.
type Pool struct {
	mu sync.Mutex
	db *squealx.DB
}

func New(db *squealx.DB) *Pool {
	return &Pool{db: db}
}

// Acquire returns a lease on the shared pool. It fails only once the pool
// has been closed.
func (p *Pool) Acquire() (*Lease, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil, ErrClosed
	}
	return &Lease{ID: wuid.New().String(), DB: p.db}, nil
}

// Close detaches the underlying pool. Outstanding leases keep their handle;
// new acquisitions fail.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	db := p.db
	p.db = nil
	return db.Close()
}

// Lease is one request's exclusive claim on a pooled connection.
type Lease struct {
	ID string
	DB *squealx.DB

	once      sync.Once
	onRelease func()
}

// OnRelease registers a hook run exactly once when the lease is released.
func (l *Lease) OnRelease(fn func()) {
	l.onRelease = fn
}

// Release returns the lease. Safe to call more than once; only the first
// call has any effect.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.DB = nil
		if l.onRelease != nil {
			l.onRelease()
		}
	})
}
