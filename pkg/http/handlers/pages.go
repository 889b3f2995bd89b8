package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bidboard/bidboard/pkg/http/middlewares"
	"github.com/bidboard/bidboard/pkg/http/requests"
	"github.com/bidboard/bidboard/pkg/models"
	"github.com/bidboard/bidboard/pkg/storage"
	"github.com/bidboard/bidboard/pkg/textutil"
	"github.com/bidboard/bidboard/pkg/utils"
)

// Home lists the most recent approved posts, newest first.
func (h *Handler) Home(c *fiber.Ctx) error {
	st := state(c)
	alert(c, st)

	posts, err := middlewares.Store(c).RecentPosts(pageSize())
	if err != nil {
		return err
	}
	st.Posts = posts
	return h.page(c, utils.HomeTemplate, st)
}

// About renders the static site description page.
func (h *Handler) About(c *fiber.Ctx) error {
	return h.page(c, utils.AboutTemplate, state(c))
}

// Post shows one post with its comments. The id is the second path segment;
// anything after it (slug text) is ignored.
func (h *Handler) Post(c *fiber.Ctx) error {
	st := state(c)
	rawID := pathSegment(c, 1)

	store := middlewares.Store(c)
	post, err := fetchPost(store, rawID)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).
			SendString(fmt.Sprintf("No post with id %q", rawID))
	}
	if err != nil {
		return err
	}

	comments, err := store.CommentsForPost(post.ID)
	if err != nil {
		return err
	}
	st.Post = post
	st.Comments = comments
	return h.page(c, utils.PostTemplate, st)
}

// NewPost accepts a post submission from an authenticated user.
func (h *Handler) NewPost(c *fiber.Ctx) error {
	st := state(c)
	if !st.LoggedIn() {
		return c.Redirect(utils.LoginURI)
	}
	if c.Method() != fiber.MethodPost {
		return h.page(c, utils.NewPostTemplate, st)
	}

	req := requests.NewPostFrom(st.Form)
	title := textutil.StripTags(req.Title)
	content := textutil.AutoLink(textutil.StripTags(req.Content))
	if textutil.Blank(title) || textutil.Blank(content) {
		st.Alert = "A post needs both a title and some content."
		return h.page(c, utils.NewPostTemplate, st)
	}

	id, err := middlewares.Store(c).CreatePost(st.User.ID, title, content)
	if err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("%s/%d", utils.PostURI, id))
}

func fetchPost(store *storage.Store, rawID string) (*models.Post, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, storage.ErrNotFound
	}
	return store.PostByID(id)
}

// pathSegment returns the nth slash-separated segment of the request path,
// or "".
func pathSegment(c *fiber.Ctx, n int) string {
	parts := strings.Split(strings.TrimPrefix(c.Path(), "/"), "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}
