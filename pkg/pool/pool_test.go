package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAfterCloseFails(t *testing.T) {
	p := &Pool{}
	require.NoError(t, p.Close())
	_, err := p.Acquire()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReleaseRunsHookExactlyOnce(t *testing.T) {
	l := &Lease{ID: "lease-a"}
	released := 0
	l.OnRelease(func() { released++ })

	l.Release()
	l.Release()
	l.Release()

	require.Equal(t, 1, released)
	assert.Nil(t, l.DB)
}

func TestReleaseWithoutHook(t *testing.T) {
	l := &Lease{ID: "lease-a"}
	assert.NotPanics(t, func() {
		l.Release()
		l.Release()
	})
}
