package middlewares

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/bidboard/bidboard/pkg/textutil"
)

// MaxBodyBytes is the hard cap on POST bodies; fiber's BodyLimit enforces it
// at the transport (413, connection dropped) before this stage runs.
const MaxBodyBytes = 1_000_000

// CollectBody parses form-encoded fields for body-bearing methods and
// attaches them, trimmed, to the request state.
func CollectBody(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
	default:
		return c.Next()
	}

	form := url.Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		form.Add(string(key), string(value))
	})
	st := State(c)
	st.Form = textutil.TrimValues(form)
	return c.Next()
}
