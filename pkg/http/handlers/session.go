package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bidboard/bidboard/pkg/models"
	"github.com/bidboard/bidboard/pkg/objects"
)

// sessionLifetime keeps users logged in for roughly ten years.
const sessionLifetime = 10 * 365 * 24 * time.Hour

func cookieNames() (string, string) {
	return objects.Config.GetString("board.cookie_id_name", "uid"),
		objects.Config.GetString("board.cookie_hash_name", "uhash")
}

// setSessionCookies issues the long-lived cookie pair holding the user's id
// and stored password hash. Never Secure: the site must stay usable over
// plain HTTP in development.
func setSessionCookies(c *fiber.Ctx, u *models.User) {
	idName, hashName := cookieNames()
	expires := time.Now().Add(sessionLifetime)
	c.Cookie(&fiber.Cookie{
		Name:     idName,
		Value:    strconv.FormatInt(u.ID, 10),
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   false,
	})
	c.Cookie(&fiber.Cookie{
		Name:     hashName,
		Value:    u.PasswordHash,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   false,
	})
}

// clearSessionCookies past-dates the pair.
func clearSessionCookies(c *fiber.Ctx) {
	idName, hashName := cookieNames()
	expired := time.Now().Add(-24 * time.Hour)
	for _, name := range []string{idName, hashName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   false,
		})
	}
}
