// Package gate limits each client IP to one in-flight request at a time.
package gate

import (
	"sync"
	"time"
)

// DefaultTTL is how long an admission lock survives before any release may
// sweep it away.
const DefaultTTL = 2 * time.Second

type entry struct {
	leaseID  string
	acquired time.Time
}

// Gate tracks at most one lease per client IP. A second request from the
// same IP is rejected while the first's lock is fresh.
//
// Release removes the releasing lease's lock and, independently, every lock
// older than the TTL regardless of IP. The sweep is deliberately global and
// time-based rather than reference-counted: a burst of short requests from
// other IPs can evict a still-valid lock early, and a long request keeps its
// IP blocked for up to the TTL after it completes. Callers that want strict
// per-IP expiry should not use this type.
//
// Unlike the single-threaded event loop this design came from, handlers here
// run on many goroutines, so the map is mutex-guarded.
type Gate struct {
	mu    sync.Mutex
	ttl   time.Duration
	locks map[string]entry

	now func() time.Time // test hook
}

func New(ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{
		ttl:   ttl,
		locks: make(map[string]entry),
		now:   time.Now,
	}
}

// TryAcquire admits the request and records a lock unless an unexpired lock
// already exists for ip. An expired leftover lock is overwritten.
func (g *Gate) TryAcquire(ip, leaseID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if e, ok := g.locks[ip]; ok && now.Sub(e.acquired) < g.ttl {
		return false
	}
	g.locks[ip] = entry{leaseID: leaseID, acquired: now}
	return true
}

// Release drops the lock held by leaseID and sweeps every lock older than
// the TTL, whoever owns it.
func (g *Gate) Release(leaseID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for ip, e := range g.locks {
		if e.leaseID == leaseID || now.Sub(e.acquired) >= g.ttl {
			delete(g.locks, ip)
		}
	}
}

// Len reports the number of live locks.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
