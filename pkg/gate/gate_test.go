package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(ttl time.Duration) (*Gate, *time.Time) {
	g := New(ttl)
	now := time.Unix(1700000000, 0)
	g.now = func() time.Time { return now }
	return g, &now
}

func TestSecondRequestFromSameIPRejected(t *testing.T) {
	g, _ := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	assert.False(t, g.TryAcquire("1.2.3.4", "lease-b"))
}

func TestAdmittedAgainAfterOwningRelease(t *testing.T) {
	g, _ := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	g.Release("lease-a")
	assert.True(t, g.TryAcquire("1.2.3.4", "lease-b"))
}

func TestDistinctIPsDoNotContend(t *testing.T) {
	g, _ := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	assert.True(t, g.TryAcquire("5.6.7.8", "lease-b"))
	assert.Equal(t, 2, g.Len())
}

func TestExpiredLockOverwrittenOnAcquire(t *testing.T) {
	g, now := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	*now = now.Add(2 * time.Second)
	assert.True(t, g.TryAcquire("1.2.3.4", "lease-b"))
}

func TestFreshLockSurvivesForeignRelease(t *testing.T) {
	g, _ := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	require.True(t, g.TryAcquire("5.6.7.8", "lease-b"))
	g.Release("lease-b")

	assert.False(t, g.TryAcquire("1.2.3.4", "lease-c"), "fresh lock must still reject")
	assert.Equal(t, 1, g.Len())
}

func TestAnyReleaseSweepsStaleLocks(t *testing.T) {
	g, now := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	*now = now.Add(2 * time.Second)
	require.True(t, g.TryAcquire("5.6.7.8", "lease-b"))

	// Releasing b also sweeps a's stale lock, by design.
	g.Release("lease-b")
	assert.Equal(t, 0, g.Len())
	assert.True(t, g.TryAcquire("1.2.3.4", "lease-c"))
}

func TestReleaseUnknownLeaseIsNoop(t *testing.T) {
	g, _ := newTestGate(2 * time.Second)

	require.True(t, g.TryAcquire("1.2.3.4", "lease-a"))
	g.Release("never-issued")
	assert.Equal(t, 1, g.Len())
}
