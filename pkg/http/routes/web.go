// Package routes wires the pipeline and the page dispatch table onto the
// fiber app.
package routes

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bidboard/bidboard/pkg/http/handlers"
	"github.com/bidboard/bidboard/pkg/http/middlewares"
	"github.com/bidboard/bidboard/pkg/models"
	"github.com/bidboard/bidboard/pkg/objects"
	"github.com/bidboard/bidboard/pkg/render"
	"github.com/bidboard/bidboard/pkg/utils"
)

var pageNameRe = regexp.MustCompile(`\W`)

// Pages builds the dispatch table: one named handler per page, exactly one
// of which runs per request.
func Pages(h *handlers.Handler) map[string]fiber.Handler {
	return map[string]fiber.Handler{
		utils.HomePage:          h.Home,
		utils.AboutPage:         h.About,
		utils.PostPage:          h.Post,
		utils.NewPostPage:       h.NewPost,
		utils.LoginPage:         h.Login,
		utils.KeyLoginPage:      h.KeyLogin,
		utils.KeyRequestPage:    h.KeyRequest,
		utils.LogoutPage:        h.Logout,
		utils.RegisterPage:      h.Register,
		utils.NewCommentPage:    h.NewComment,
		utils.DeleteCommentPage: h.DeleteComment,
	}
}

// Dispatch resolves the page from the first path segment, sanitized to word
// characters and defaulting to home. Unknown pages are 404.
func Dispatch(pages map[string]fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		segment := strings.SplitN(strings.TrimPrefix(c.Path(), "/"), "/", 2)[0]
		page := pageNameRe.ReplaceAllString(segment, "")
		if page == "" {
			page = utils.HomePage
		}
		handler, ok := pages[page]
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		if st := middlewares.State(c); st != nil {
			st.Page = page
		}
		return handler(c)
	}
}

// Setup installs the pipeline stages in their fixed order, then the
// dispatcher.
func Setup(app *fiber.App, adm *middlewares.Admission, bl *middlewares.Blocklist, h *handlers.Handler, log *zap.Logger) {
	app.Use(middlewares.Audit(log))
	app.Use(adm.Handler)
	app.Use(bl.BlockCountries)
	app.Use(bl.BlockNuked)
	app.Use(middlewares.CollectBody)
	app.Use(middlewares.Authenticate)
	app.All("/*", Dispatch(Pages(h)))
}

// NewErrorHandler turns uncaught pipeline failures into the error page with
// the failure's status code and message. Failures raised before admission
// (such as the transport body cap) have no request state yet, so a minimal
// one is built for the layout. Releasing the connection lease is not its
// job: the admission stage guarantees that on every path.
func NewErrorHandler(r *render.Renderer) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		st := middlewares.State(c)
		if st == nil {
			st = &models.RequestState{
				SiteName: objects.Config.GetString("board.site_name", "bidboard"),
			}
		}
		st.Alert = err.Error()
		out, rerr := r.HTML(utils.ErrorTemplate, st)
		if rerr != nil {
			return c.Status(code).SendString(err.Error())
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(code).SendString(out)
	}
}
