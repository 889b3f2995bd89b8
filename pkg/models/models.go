package models

// User is the row snapshot attached to a request after authentication. The
// pipeline never mutates it; login, registration and key redemption write
// through the store instead.
type User struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	OnetimeKey   string `db:"onetime_key"`
	CreatedAt    int64  `db:"created_at"`
}

type Post struct {
	ID         int64  `db:"id"`
	UserID     int64  `db:"user_id"`
	AuthorName string `db:"author_name"`
	Title      string `db:"title"`
	Content    string `db:"content"`
	CreatedAt  int64  `db:"created_at"`
}

type Comment struct {
	ID         int64  `db:"id"`
	PostID     int64  `db:"post_id"`
	UserID     int64  `db:"user_id"`
	AuthorName string `db:"author_name"`
	Content    string `db:"content"`
	CreatedAt  int64  `db:"created_at"`
}
