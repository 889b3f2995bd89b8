package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/bidboard/bidboard/pkg/http/middlewares"
	"github.com/bidboard/bidboard/pkg/http/requests"
	"github.com/bidboard/bidboard/pkg/objects"
	"github.com/bidboard/bidboard/pkg/textutil"
	"github.com/bidboard/bidboard/pkg/utils"
)

// NewComment inserts a comment and returns the joined row as an HTML
// fragment for client-side append. Empty content is silently dropped (200,
// empty body); a second comment inside the cooldown gets an inline alert
// instead of a row.
func (h *Handler) NewComment(c *fiber.Ctx) error {
	st := state(c)
	req := requests.NewCommentFrom(st.Form)

	if textutil.Blank(req.Content) || !st.LoggedIn() || req.PostID <= 0 {
		return c.SendString("")
	}

	store := middlewares.Store(c)
	cooldown := objects.Config.GetDuration("board.comment_cooldown", "2s")
	last, ok, err := store.LastCommentAt(st.User.ID)
	if err != nil {
		return err
	}
	if ok && time.Since(last) < cooldown {
		return c.SendString(`<div class="alert">You are commenting too fast. Slow down.</div>`)
	}

	content := textutil.AutoLink(textutil.StripTags(req.Content))
	comment, err := store.CreateComment(req.PostID, st.User.ID, content)
	if err != nil {
		return err
	}

	out, err := h.Render.Fragment(utils.CommentTemplate, comment)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(out)
}

// DeleteComment removes a comment when the authenticated user owns it;
// anything else is a no-op. Either way the client is sent back to the post.
func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	st := state(c)
	req := requests.DeleteCommentFrom(st.Form)

	if st.LoggedIn() && req.CommentID > 0 {
		if err := middlewares.Store(c).DeleteComment(req.CommentID, st.User.ID); err != nil {
			return err
		}
		c = flash.WithData(c, fiber.Map{"alert": "Comment deleted."})
	}
	if req.PostID > 0 {
		return c.Redirect(fmt.Sprintf("%s/%d", utils.PostURI, req.PostID))
	}
	return c.Redirect(utils.HomeURI)
}
