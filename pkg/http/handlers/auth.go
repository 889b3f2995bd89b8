package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/hash"
	"github.com/sujit-baniya/flash"
	"go.uber.org/zap"

	"github.com/bidboard/bidboard/pkg/http/middlewares"
	"github.com/bidboard/bidboard/pkg/http/requests"
	"github.com/bidboard/bidboard/pkg/mail"
	"github.com/bidboard/bidboard/pkg/objects"
	"github.com/bidboard/bidboard/pkg/storage"
	"github.com/bidboard/bidboard/pkg/textutil"
	"github.com/bidboard/bidboard/pkg/utils"
)

func passwordAlgo() string {
	return objects.Config.GetString("board.password_algo", "md5")
}

// Login renders the form on GET and checks credentials on POST. A failed
// login is a soft error: the anonymous view renders with a message, no
// cookie is set, and the status stays 200.
func (h *Handler) Login(c *fiber.Ctx) error {
	st := state(c)
	alert(c, st)
	if c.Method() != fiber.MethodPost {
		return h.page(c, utils.LoginTemplate, st)
	}

	req := requests.LoginFrom(st.Form)
	store := middlewares.Store(c)

	user, err := store.UserByEmail(req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if user != nil {
		ok, _ := hash.Match(req.Password, user.PasswordHash, passwordAlgo())
		if !ok {
			user = nil
		}
	}
	if user == nil {
		st.Alert = "Wrong email or password."
		return h.page(c, utils.LoginTemplate, st)
	}

	setSessionCookies(c, user)
	st.User = user
	posts, err := store.RecentPosts(pageSize())
	if err != nil {
		return err
	}
	st.Posts = posts
	return h.page(c, utils.HomeTemplate, st)
}

// KeyLogin redeems an emailed one-time key. A missing or spent key renders
// a "key already used" message; a live key is invalidated, the account gets
// a fresh random password, and the user is logged in as if by credentials.
func (h *Handler) KeyLogin(c *fiber.Ctx) error {
	st := state(c)
	key := c.Query("key")

	newPassword := utils.GeneratedPassword(key)
	newHash, err := hash.Make(newPassword, passwordAlgo())
	if err != nil {
		return err
	}

	store := middlewares.Store(c)
	user, err := store.RedeemOnetimeKey(key, newHash)
	if errors.Is(err, storage.ErrNotFound) {
		st.Alert = "That login key has already been used. Request a new one."
		return h.page(c, utils.LoginTemplate, st)
	}
	if err != nil {
		return err
	}

	setSessionCookies(c, user)
	st.User = user
	posts, err := store.RecentPosts(pageSize())
	if err != nil {
		return err
	}
	st.Posts = posts
	return h.page(c, utils.HomeTemplate, st)
}

// KeyRequest emails a fresh one-time login link to an existing account,
// replacing whatever key the row held. The response is the same whether or
// not the email is registered, so the form cannot be used to probe accounts.
func (h *Handler) KeyRequest(c *fiber.Ctx) error {
	st := state(c)
	alert(c, st)
	if c.Method() != fiber.MethodPost {
		return h.page(c, utils.KeyRequestTemplate, st)
	}

	email := textutil.StripTags(st.FormValue("email"))
	store := middlewares.Store(c)
	user, err := store.UserByEmail(email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if user != nil {
		key := utils.OnetimeKey(objects.Config.GetString("board.secret"))
		if err := store.SetOnetimeKey(user.ID, key); err != nil {
			return err
		}
		link := fmt.Sprintf("%s%s?key=%s", c.BaseURL(), utils.KeyLoginURI, key)
		from := objects.Config.GetString("smtp.from", "bidboard@localhost")
		siteName := objects.Config.GetString("board.site_name", "bidboard")
		if err := h.Mailer.Send(mail.LoginLink(from, user.Email, siteName, link)); err != nil {
			h.Log.Error("login link delivery failed", zap.String("to", user.Email), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "could not send the login email")
		}
	}

	c = flash.WithData(c, fiber.Map{"alert": "If that email has an account, a login link is on its way."})
	return c.Redirect(utils.LoginURI)
}

// Logout past-dates the cookie pair and goes home.
func (h *Handler) Logout(c *fiber.Ctx) error {
	clearSessionCookies(c)
	return c.Redirect(utils.HomeURI)
}

// Register validates the submitted identity, inserts the user and emails a
// one-time login link. Validation failures and duplicates are soft errors.
func (h *Handler) Register(c *fiber.Ctx) error {
	st := state(c)
	alert(c, st)
	if c.Method() != fiber.MethodPost {
		return h.page(c, utils.RegisterTemplate, st)
	}

	req := requests.RegisterFrom(st.Form)
	name := textutil.StripTags(req.Name)
	email := textutil.StripTags(req.Email)

	if !utils.IsAlphanumeric(name) {
		st.Alert = "User names can only contain letters and digits."
		return h.page(c, utils.RegisterTemplate, st)
	}
	if !utils.IsEmail(email) {
		st.Alert = "That does not look like an email address."
		return h.page(c, utils.RegisterTemplate, st)
	}

	store := middlewares.Store(c)
	if _, err := store.UserByEmail(email); err == nil {
		st.Alert = "That email is already registered."
		return h.page(c, utils.RegisterTemplate, st)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if _, err := store.UserByName(name); err == nil {
		st.Alert = "That user name is already taken."
		return h.page(c, utils.RegisterTemplate, st)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	secret := objects.Config.GetString("board.secret")
	key := utils.OnetimeKey(secret)
	initialHash, err := hash.Make(utils.GeneratedPassword(key), passwordAlgo())
	if err != nil {
		return err
	}
	if _, err := store.CreateUser(name, email, initialHash, key); err != nil {
		return err
	}

	link := fmt.Sprintf("%s%s?key=%s", c.BaseURL(), utils.KeyLoginURI, key)
	from := objects.Config.GetString("smtp.from", "bidboard@localhost")
	siteName := objects.Config.GetString("board.site_name", "bidboard")
	if err := h.Mailer.Send(mail.LoginLink(from, email, siteName, link)); err != nil {
		h.Log.Error("login link delivery failed", zap.String("to", email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "could not send the login email")
	}

	c = flash.WithData(c, fiber.Map{"alert": "Account created. Check your email for a login link."})
	return c.Redirect(utils.HomeURI)
}
