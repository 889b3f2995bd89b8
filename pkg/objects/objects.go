package objects

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bidboard/bidboard/pkg/config"
)

var (
	Config     *config.Config
	ViewEngine fiber.Views
	Layout     string
)
