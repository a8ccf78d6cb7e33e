package controller

import (
	"github.com/gofiber/fiber/v2"
)

// Renderer turns a template identifier and a data bag into a response. The
// panel core never commits to a markup language; cmd wires an HTML
// implementation and tests read the JSON fallback.
type Renderer interface {
	Render(c *fiber.Ctx, template string, data fiber.Map) error
}

// jsonRenderer is the default: it serializes the data bag as JSON with the
// template identifier alongside.
type jsonRenderer struct{}

func (jsonRenderer) Render(c *fiber.Ctx, template string, data fiber.Map) error {
	data["template"] = template
	return c.JSON(data)
}
