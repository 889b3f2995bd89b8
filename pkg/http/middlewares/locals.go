package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bidboard/bidboard/pkg/models"
	"github.com/bidboard/bidboard/pkg/storage"
)

const (
	stateKey = "reqstate"
	storeKey = "reqstore"
)

// State returns the request-scoped state created by the admission stage.
func State(c *fiber.Ctx) *models.RequestState {
	st, _ := c.Locals(stateKey).(*models.RequestState)
	return st
}

// Store returns the request's traced view of the store.
func Store(c *fiber.Ctx) *storage.Store {
	s, _ := c.Locals(storeKey).(*storage.Store)
	return s
}
