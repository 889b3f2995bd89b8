// Package storage is the relational store behind the board: users, posts,
// comments and the IP block tables.
package storage

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/oarkflow/squealx"

	"github.com/bidboard/bidboard/pkg/models"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
	SQLite     DatabaseType = "sqlite"
)

var ErrNotFound = errors.New("storage: not found")

// TraceFunc observes one executed query and its duration. A request-scoped
// trace is attached with WithTrace.
type TraceFunc func(sql string, d time.Duration)

// Store wraps the shared squealx pool with schema management and the query
// surface the handlers need.
type Store struct {
	db     *squealx.DB
	dbType DatabaseType
	trace  TraceFunc
}

// New creates the store and ensures the schema exists.
func New(db *squealx.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	s := &Store{
		db:     db,
		dbType: DatabaseType(db.DriverName()),
	}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return s, nil
}

// WithTrace returns a shallow copy whose queries report into fn. The copy
// shares the pool; it exists so one request's view of the store records that
// request's queries and nobody else's.
func (s *Store) WithTrace(fn TraceFunc) *Store {
	clone := *s
	clone.trace = fn
	return &clone
}

func (s *Store) record(query string, start time.Time) {
	if s.trace != nil {
		s.trace(query, time.Since(start))
	}
}

func (s *Store) namedExec(query string, params map[string]any) (sql.Result, error) {
	start := time.Now()
	res, err := s.db.NamedExec(query, params)
	s.record(query, start)
	return res, err
}

func (s *Store) namedGet(dest any, query string, params map[string]any) error {
	start := time.Now()
	err := s.db.NamedGet(dest, query, params)
	s.record(query, start)
	return err
}

func (s *Store) namedSelect(dest any, query string, params map[string]any) error {
	start := time.Now()
	err := s.db.NamedSelect(dest, query, params)
	s.record(query, start)
	return err
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// --- Schema ---

func (s *Store) createTables() error {
	var queries []string
	switch s.dbType {
	case MySQL:
		queries = s.getMySQLSchema()
	case PostgreSQL:
		queries = s.getPostgreSQLSchema()
	case SQLite:
		queries = s.getSQLiteSchema()
	default:
		return fmt.Errorf("unsupported database type: %s", s.dbType)
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}
	return nil
}

func (s *Store) getMySQLSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			name VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			onetime_key VARCHAR(255) DEFAULT '',
			created_at BIGINT NOT NULL,
			INDEX idx_users_email (email),
			INDEX idx_users_onetime_key (onetime_key)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS posts (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			user_id BIGINT NOT NULL,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			approved TINYINT(1) DEFAULT 1,
			created_at BIGINT NOT NULL,
			INDEX idx_posts_created_at (created_at),
			INDEX idx_posts_user_id (user_id)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS comments (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			post_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_comments_post_id (post_id),
			INDEX idx_comments_user_id (user_id)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS ip_blocks (
			ip VARCHAR(45) PRIMARY KEY
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS country_blocks (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			ip_from BIGINT NOT NULL,
			ip_to BIGINT NOT NULL,
			country CHAR(2) NOT NULL,
			INDEX idx_country_blocks_range (ip_from, ip_to)
		) ENGINE=InnoDB`,
	}
}

func (s *Store) getPostgreSQLSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			onetime_key VARCHAR(255) DEFAULT '',
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			approved BOOLEAN DEFAULT TRUE,
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ip_blocks (
			ip VARCHAR(45) PRIMARY KEY
		)`,

		`CREATE TABLE IF NOT EXISTS country_blocks (
			id BIGSERIAL PRIMARY KEY,
			ip_from BIGINT NOT NULL,
			ip_to BIGINT NOT NULL,
			country CHAR(2) NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_onetime_key ON users(onetime_key)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_user_id ON comments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_country_blocks_range ON country_blocks(ip_from, ip_to)`,
	}
}

func (s *Store) getSQLiteSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			onetime_key TEXT DEFAULT '',
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			approved INTEGER DEFAULT 1,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ip_blocks (
			ip TEXT PRIMARY KEY
		)`,

		`CREATE TABLE IF NOT EXISTS country_blocks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ip_from INTEGER NOT NULL,
			ip_to INTEGER NOT NULL,
			country TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_onetime_key ON users(onetime_key)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_user_id ON comments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_country_blocks_range ON country_blocks(ip_from, ip_to)`,
	}
}

// convertBoolForDB converts boolean values to database-specific format
func (s *Store) convertBoolForDB(value bool) any {
	switch s.dbType {
	case PostgreSQL:
		return value
	default:
		if value {
			return 1
		}
		return 0
	}
}

// insertID runs an insert and returns the generated id, using RETURNING
// where the driver has no LastInsertId.
func (s *Store) insertID(query string, params map[string]any) (int64, error) {
	if s.dbType == PostgreSQL {
		var id int64
		if err := s.namedGet(&id, query+" RETURNING id", params); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := s.namedExec(query, params)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// --- Users ---

const userColumns = `id, name, email, password_hash, onetime_key, created_at`

func (s *Store) CreateUser(name, email, passwordHash, onetimeKey string) (int64, error) {
	query := `INSERT INTO users (name, email, password_hash, onetime_key, created_at)
		VALUES (:name, :email, :password_hash, :onetime_key, :created_at)`
	params := map[string]any{
		"name":          name,
		"email":         email,
		"password_hash": passwordHash,
		"onetime_key":   onetimeKey,
		"created_at":    time.Now().Unix(),
	}
	return s.insertID(query, params)
}

func (s *Store) UserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = :id`
	var u models.User
	err := s.namedGet(&u, query, map[string]any{"id": id})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = :email`
	var u models.User
	err := s.namedGet(&u, query, map[string]any{"email": email})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByName(name string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = :name`
	var u models.User
	err := s.namedGet(&u, query, map[string]any{"name": name})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserBySession resolves the cookie pair: the id and hash must both match
// the stored row.
func (s *Store) UserBySession(id int64, hash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = :id AND password_hash = :password_hash`
	params := map[string]any{
		"id":            id,
		"password_hash": hash,
	}
	var u models.User
	err := s.namedGet(&u, query, params)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RedeemOnetimeKey atomically invalidates the key and installs the new
// password hash, returning the owning user. A key that matches no row has
// already been used.
func (s *Store) RedeemOnetimeKey(key, newPasswordHash string) (*models.User, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE onetime_key = :onetime_key`
	err := s.namedGet(&u, query, map[string]any{"onetime_key": key})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	update := `UPDATE users SET onetime_key = '', password_hash = :password_hash
		WHERE id = :id AND onetime_key = :onetime_key`
	params := map[string]any{
		"password_hash": newPasswordHash,
		"id":            u.ID,
		"onetime_key":   key,
	}
	res, err := s.namedExec(update, params)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race: somebody else redeemed the key first.
		return nil, ErrNotFound
	}
	u.OnetimeKey = ""
	u.PasswordHash = newPasswordHash
	return &u, nil
}

func (s *Store) SetOnetimeKey(userID int64, key string) error {
	query := `UPDATE users SET onetime_key = :onetime_key WHERE id = :id`
	_, err := s.namedExec(query, map[string]any{"onetime_key": key, "id": userID})
	return err
}

// --- Posts ---

const postColumns = `p.id, p.user_id, u.name AS author_name, p.title, p.content, p.created_at`

func (s *Store) CreatePost(userID int64, title, content string) (int64, error) {
	query := `INSERT INTO posts (user_id, title, content, approved, created_at)
		VALUES (:user_id, :title, :content, :approved, :created_at)`
	params := map[string]any{
		"user_id":    userID,
		"title":      title,
		"content":    content,
		"approved":   s.convertBoolForDB(true),
		"created_at": time.Now().Unix(),
	}
	return s.insertID(query, params)
}

// RecentPosts lists the newest approved posts, most recent first.
func (s *Store) RecentPosts(limit int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.approved = :approved
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT :limit`
	params := map[string]any{
		"approved": s.convertBoolForDB(true),
		"limit":    limit,
	}
	posts := []models.Post{}
	if err := s.namedSelect(&posts, query, params); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) PostByID(id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = :id`
	var p models.Post
	err := s.namedGet(&p, query, map[string]any{"id": id})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// --- Comments ---

const commentColumns = `c.id, c.post_id, c.user_id, u.name AS author_name, c.content, c.created_at`

// CreateComment inserts and returns the freshly-joined row with author info,
// ready for client-side append.
func (s *Store) CreateComment(postID, userID int64, content string) (*models.Comment, error) {
	query := `INSERT INTO comments (post_id, user_id, content, created_at)
		VALUES (:post_id, :user_id, :content, :created_at)`
	params := map[string]any{
		"post_id":    postID,
		"user_id":    userID,
		"content":    content,
		"created_at": time.Now().Unix(),
	}
	id, err := s.insertID(query, params)
	if err != nil {
		return nil, err
	}
	return s.CommentByID(id)
}

func (s *Store) CommentByID(id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.id = :id`
	var cm models.Comment
	err := s.namedGet(&cm, query, map[string]any{"id": id})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// CommentsForPost returns the post's comments ordered by creation time.
func (s *Store) CommentsForPost(postID int64) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = :post_id
		ORDER BY c.created_at ASC, c.id ASC`
	comments := []models.Comment{}
	if err := s.namedSelect(&comments, query, map[string]any{"post_id": postID}); err != nil {
		return nil, err
	}
	return comments, nil
}

// LastCommentAt returns the creation time of the user's most recent comment.
func (s *Store) LastCommentAt(userID int64) (time.Time, bool, error) {
	query := `SELECT c.created_at FROM comments c WHERE c.user_id = :user_id
		ORDER BY c.created_at DESC, c.id DESC LIMIT 1`
	var createdAt int64
	err := s.namedGet(&createdAt, query, map[string]any{"user_id": userID})
	if notFound(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(createdAt, 0), true, nil
}

// DeleteComment removes the comment only if userID owns it; anything else is
// a no-op.
func (s *Store) DeleteComment(commentID, userID int64) error {
	query := `DELETE FROM comments WHERE id = :id AND user_id = :user_id`
	_, err := s.namedExec(query, map[string]any{"id": commentID, "user_id": userID})
	return err
}

// --- Block lists ---

func (s *Store) NukeIP(ip string) error {
	if s.dbType == MySQL {
		query := `INSERT IGNORE INTO ip_blocks (ip) VALUES (:ip)`
		_, err := s.namedExec(query, map[string]any{"ip": ip})
		return err
	}
	query := `INSERT INTO ip_blocks (ip) VALUES (:ip) ON CONFLICT (ip) DO NOTHING`
	_, err := s.namedExec(query, map[string]any{"ip": ip})
	return err
}

func (s *Store) IsIPNuked(ip string) (bool, error) {
	query := `SELECT COUNT(*) FROM ip_blocks WHERE ip = :ip`
	var count int
	if err := s.namedGet(&count, query, map[string]any{"ip": ip}); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) BlockCountryRange(ipFrom, ipTo uint32, country string) error {
	query := `INSERT INTO country_blocks (ip_from, ip_to, country) VALUES (:ip_from, :ip_to, :country)`
	params := map[string]any{
		"ip_from": int64(ipFrom),
		"ip_to":   int64(ipTo),
		"country": country,
	}
	_, err := s.namedExec(query, params)
	return err
}

// IsCountryBlocked reports whether the IPv4 address falls inside a blocked
// range. Non-IPv4 addresses are never blocked.
func (s *Store) IsCountryBlocked(ip string) (bool, error) {
	n, ok := IPv4ToUint32(ip)
	if !ok {
		return false, nil
	}
	query := `SELECT COUNT(*) FROM country_blocks WHERE ip_from <= :ip AND ip_to >= :ip`
	var count int
	if err := s.namedGet(&count, query, map[string]any{"ip": int64(n)}); err != nil {
		return false, err
	}
	return count > 0, nil
}

// IPv4ToUint32 converts a dotted-quad address to its integer form.
func IPv4ToUint32(ip string) (uint32, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return 0, false
	}
	v4 := parsed.To4()
	if v4 == nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(v4), true
}
