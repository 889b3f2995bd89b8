// Package handlers implements the page handlers behind the dispatch table.
// Each handler receives a request whose state (connection lease, client IP,
// user, trimmed form) was populated by the pipeline, performs its own reads
// and writes, and renders the response.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"go.uber.org/zap"

	"github.com/bidboard/bidboard/pkg/mail"
	"github.com/bidboard/bidboard/pkg/models"
	"github.com/bidboard/bidboard/pkg/objects"
	"github.com/bidboard/bidboard/pkg/render"

	"github.com/bidboard/bidboard/pkg/http/middlewares"
)

type Handler struct {
	Render *render.Renderer
	Mailer mail.Mailer
	Log    *zap.Logger
}

func New(r *render.Renderer, m mail.Mailer, log *zap.Logger) *Handler {
	return &Handler{Render: r, Mailer: m, Log: log}
}

// page renders the template with the accumulated state and writes it as the
// response body.
func (h *Handler) page(c *fiber.Ctx, template string, st *models.RequestState) error {
	out, err := h.Render.HTML(template, st)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(out)
}

// alert reads a flash message left by a previous redirect into the state.
func alert(c *fiber.Ctx, st *models.RequestState) {
	if st.Alert != "" {
		return
	}
	if values := flash.Get(c); values != nil {
		if msg, ok := values["alert"].(string); ok {
			st.Alert = msg
		}
	}
}

func pageSize() int {
	return objects.Config.GetInt("board.page_size", 20)
}

func state(c *fiber.Ctx) *models.RequestState {
	return middlewares.State(c)
}
