package middlewares

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bidboard/bidboard/pkg/objects"
)

// Authenticate resolves the session cookie pair into a user row. Every
// failure mode — missing cookies, malformed id, no matching row — leaves the
// request anonymous; authentication never errors a request.
func Authenticate(c *fiber.Ctx) error {
	st := State(c)

	id, hash, ok := sessionCookies(c)
	if !ok {
		return c.Next()
	}
	user, err := Store(c).UserBySession(id, hash)
	if err != nil {
		return c.Next()
	}
	st.User = user
	return c.Next()
}

// sessionCookies reads the configured cookie pair, falling back to the
// legacy single cookie holding "id_hash".
func sessionCookies(c *fiber.Ctx) (int64, string, bool) {
	idName := objects.Config.GetString("board.cookie_id_name", "uid")
	hashName := objects.Config.GetString("board.cookie_hash_name", "uhash")

	rawID := c.Cookies(idName)
	hash := c.Cookies(hashName)

	if rawID == "" || hash == "" {
		joined := c.Cookies("session")
		parts := strings.SplitN(joined, "_", 2)
		if len(parts) != 2 {
			return 0, "", false
		}
		rawID, hash = parts[0], parts[1]
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 || hash == "" {
		return 0, "", false
	}
	return id, hash, true
}
