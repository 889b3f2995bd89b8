package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oarkflow/squealx/drivers/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := New(db)
	require.NoError(t, err)
	return store
}

func TestCreateAndFetchUser(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUser("alice", "alice@example.com", "deadbeef", "key-1")
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := s.UserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "deadbeef", u.PasswordHash)

	byEmail, err := s.UserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	_, err = s.UserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserBySessionRequiresBothValues(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateUser("alice", "alice@example.com", "deadbeef", "")
	require.NoError(t, err)

	u, err := s.UserBySession(id, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)

	_, err = s.UserBySession(id, "wronghash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedeemOnetimeKey(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateUser("alice", "alice@example.com", "oldhash", "key-1")
	require.NoError(t, err)

	u, err := s.RedeemOnetimeKey("key-1", "newhash")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "newhash", u.PasswordHash)
	assert.Empty(t, u.OnetimeKey)

	// A second redemption must fail: the key is single-use.
	_, err = s.RedeemOnetimeKey("key-1", "anotherhash")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := s.UserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "newhash", stored.PasswordHash)
}

func TestRedeemEmptyKeyNeverMatches(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateUser("alice", "alice@example.com", "hash", "")
	require.NoError(t, err)

	_, err = s.RedeemOnetimeKey("", "newhash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentPostsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	uid, err := s.CreateUser("alice", "alice@example.com", "hash", "")
	require.NoError(t, err)

	var last int64
	for i := 0; i < 25; i++ {
		last, err = s.CreatePost(uid, "title", "content")
		require.NoError(t, err)
	}

	posts, err := s.RecentPosts(20)
	require.NoError(t, err)
	require.Len(t, posts, 20)
	assert.Equal(t, last, posts[0].ID, "newest post first")
	assert.Equal(t, "alice", posts[0].AuthorName)
}

func TestPostByIDMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.PostByID(47)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentsJoinAuthorAndOrder(t *testing.T) {
	s := newTestStore(t)
	uid, err := s.CreateUser("alice", "alice@example.com", "hash", "")
	require.NoError(t, err)
	pid, err := s.CreatePost(uid, "title", "content")
	require.NoError(t, err)

	first, err := s.CreateComment(pid, uid, "first")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.AuthorName)

	_, err = s.CreateComment(pid, uid, "second")
	require.NoError(t, err)

	comments, err := s.CommentsForPost(pid)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestLastCommentAt(t *testing.T) {
	s := newTestStore(t)
	uid, err := s.CreateUser("alice", "alice@example.com", "hash", "")
	require.NoError(t, err)

	_, ok, err := s.LastCommentAt(uid)
	require.NoError(t, err)
	assert.False(t, ok)

	pid, err := s.CreatePost(uid, "title", "content")
	require.NoError(t, err)
	_, err = s.CreateComment(pid, uid, "hello")
	require.NoError(t, err)

	at, ok, err := s.LastCommentAt(uid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), at, 5*time.Second)
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	s := newTestStore(t)
	owner, err := s.CreateUser("alice", "alice@example.com", "hash", "")
	require.NoError(t, err)
	other, err := s.CreateUser("bob", "bob@example.com", "hash2", "")
	require.NoError(t, err)
	pid, err := s.CreatePost(owner, "title", "content")
	require.NoError(t, err)
	cm, err := s.CreateComment(pid, owner, "mine")
	require.NoError(t, err)

	// Non-owner delete is a no-op.
	require.NoError(t, s.DeleteComment(cm.ID, other))
	_, err = s.CommentByID(cm.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteComment(cm.ID, owner))
	_, err = s.CommentByID(cm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIPBlocklists(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NukeIP("9.9.9.9"))
	require.NoError(t, s.NukeIP("9.9.9.9")) // idempotent
	nuked, err := s.IsIPNuked("9.9.9.9")
	require.NoError(t, err)
	assert.True(t, nuked)

	clean, err := s.IsIPNuked("8.8.8.8")
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestCountryBlockRange(t *testing.T) {
	s := newTestStore(t)

	from, ok := IPv4ToUint32("10.0.0.0")
	require.True(t, ok)
	to, ok := IPv4ToUint32("10.0.0.255")
	require.True(t, ok)
	require.NoError(t, s.BlockCountryRange(from, to, "XX"))

	blocked, err := s.IsCountryBlocked("10.0.0.47")
	require.NoError(t, err)
	assert.True(t, blocked)

	outside, err := s.IsCountryBlocked("10.0.1.1")
	require.NoError(t, err)
	assert.False(t, outside)

	v6, err := s.IsCountryBlocked("::1")
	require.NoError(t, err)
	assert.False(t, v6)
}

func TestWithTraceRecordsQueries(t *testing.T) {
	s := newTestStore(t)
	var seen []string
	traced := s.WithTrace(func(sql string, d time.Duration) {
		seen = append(seen, sql)
	})

	_, err := traced.RecentPosts(5)
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	assert.Contains(t, seen[0], "FROM posts")

	// The untouched store must not share the trace.
	seen = nil
	_, err = s.RecentPosts(5)
	require.NoError(t, err)
	assert.Empty(t, seen)
}
