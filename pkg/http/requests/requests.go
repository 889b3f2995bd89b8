// Package requests holds the form and query shapes the handlers bind.
package requests

import (
	"net/url"
	"strconv"
)

type Login struct {
	Email    string
	Password string
}

func LoginFrom(form url.Values) Login {
	return Login{
		Email:    form.Get("email"),
		Password: form.Get("password"),
	}
}

type Register struct {
	Name  string
	Email string
}

func RegisterFrom(form url.Values) Register {
	return Register{
		Name:  form.Get("name"),
		Email: form.Get("email"),
	}
}

type NewPost struct {
	Title   string
	Content string
}

func NewPostFrom(form url.Values) NewPost {
	return NewPost{
		Title:   form.Get("title"),
		Content: form.Get("content"),
	}
}

type NewComment struct {
	PostID  int64
	Content string
}

func NewCommentFrom(form url.Values) NewComment {
	id, _ := strconv.ParseInt(form.Get("post_id"), 10, 64)
	return NewComment{
		PostID:  id,
		Content: form.Get("comment_content"),
	}
}

type DeleteComment struct {
	CommentID int64
	PostID    int64
}

func DeleteCommentFrom(form url.Values) DeleteComment {
	cid, _ := strconv.ParseInt(form.Get("comment_id"), 10, 64)
	pid, _ := strconv.ParseInt(form.Get("post_id"), 10, 64)
	return DeleteComment{CommentID: cid, PostID: pid}
}
