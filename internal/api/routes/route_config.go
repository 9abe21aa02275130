package routes

import (
	"github.com/gofiber/fiber/v2"

	"Grocery-Receipt-Tracker/internal/api/handlers"
	"Grocery-Receipt-Tracker/internal/middleware"
	"Grocery-Receipt-Tracker/pkg/jwt"
)

type Config struct {
	App            *fiber.App
	AuthHandler    handlers.AuthHandler
	ReceiptHandler handlers.ReceiptHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Receipts()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/token", c.AuthHandler.CreateToken)
	}
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1/receipts", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("", c.ReceiptHandler.UploadReceipt)
	receipts.Get("", c.ReceiptHandler.GetReceipts)
	receipts.Get("/:id", c.ReceiptHandler.GetReceiptDetails)
}
