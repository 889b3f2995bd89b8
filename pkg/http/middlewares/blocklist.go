package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Blocklist holds the geo and spam block stages. Both answer 404 rather
// than 403 so blocked clients learn nothing.
type Blocklist struct {
	Log *zap.Logger
}

// BlockCountries rejects clients whose IPv4 address falls in a blocked
// country range.
func (m *Blocklist) BlockCountries(c *fiber.Ctx) error {
	st := State(c)
	blocked, err := Store(c).IsCountryBlocked(st.IP)
	if err != nil {
		return err
	}
	if blocked {
		m.Log.Info("blocked country hit", zap.String("ip", st.IP))
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.Next()
}

// BlockNuked rejects IPs on the explicit block list.
func (m *Blocklist) BlockNuked(c *fiber.Ctx) error {
	st := State(c)
	nuked, err := Store(c).IsIPNuked(st.IP)
	if err != nil {
		return err
	}
	if nuked {
		m.Log.Info("nuked ip hit", zap.String("ip", st.IP))
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.Next()
}
