package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/parpalak/admin-yard-sub000/internal/config"
)

const cookieName = "panel_auth"

// Middleware redirects unauthenticated requests to the login screen. A
// config without a password hash disables the guard entirely.
func Middleware(cfg config.AdminConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.PasswordHash == "" {
			return c.Next()
		}
		token := c.Cookies(cookieName)
		if token == "" || ValidateToken(token, cfg.JWTSecret) != nil {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RegisterRoutes mounts the login and logout handlers.
func RegisterRoutes(app *fiber.App, cfg config.AdminConfig) {
	app.Get("/login", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(loginPage)
	})

	app.Post("/login", func(c *fiber.Ctx) error {
		password := c.FormValue("password")
		if !CheckPassword(password, cfg.PasswordHash) {
			return c.Status(fiber.StatusUnauthorized).SendString("Wrong password")
		}
		token, err := GenerateToken(cfg.JWTSecret)
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    token,
			HTTPOnly: true,
			SameSite: "Lax",
		})
		return c.Redirect("/admin", fiber.StatusFound)
	})

	app.Get("/logout", func(c *fiber.Ctx) error {
		c.ClearCookie(cookieName)
		return c.Redirect("/login", fiber.StatusFound)
	})
}

const loginPage = `<!DOCTYPE html>
<html><body>
<form method="post" action="/login">
<input type="password" name="password" autofocus>
<button type="submit">Log in</button>
</form>
</body></html>`
