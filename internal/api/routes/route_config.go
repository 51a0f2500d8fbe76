package routes

import (
	"github.com/gofiber/fiber/v2"
	"zesto-backend/domain"
	"zesto-backend/internal/api/handlers"
	"zesto-backend/internal/middleware"
	"zesto-backend/pkg/jwt"
)

type Config struct {
	App              *fiber.App
	InventoryHandler handlers.InventoryHandler
	ScanHandler      handlers.ScanHandler
	ShoppingHandler  handlers.ShoppingHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Inventory()
	c.ReceiptScans()
	c.ShoppingList()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

// userOnly authenticates the bearer token and admits the user role.
func (c *Config) userOnly() []fiber.Handler {
	return []fiber.Handler{
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.OnlyAllow(domain.RoleUser),
	}
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.userOnly()...)
	inventory.Get("/summary", c.InventoryHandler.GetInventorySummary)
	inventory.Post("/reconcile", c.InventoryHandler.ReconcileItems)

	inventory.Get("", c.InventoryHandler.GetInventory)
	inventory.Get("/:id", c.InventoryHandler.GetInventoryItem)
	inventory.Put("/:id", c.InventoryHandler.UpdateInventoryItem)
	inventory.Delete("/:id", c.InventoryHandler.DeleteInventoryItem)
	inventory.Post("/:id/consume", c.InventoryHandler.ConsumeInventoryItem)
}

func (c *Config) ReceiptScans() {
	scans := c.App.Group("/api/v1/receipt-scans", c.userOnly()...)
	scans.Post("", c.ScanHandler.UploadReceipt)
	scans.Get("/:id", c.ScanHandler.GetReceiptScan)
	scans.Post("/:id/confirm", c.ScanHandler.ConfirmReceiptScan)
}

func (c *Config) ShoppingList() {
	list := c.App.Group("/api/v1/shopping-list", c.userOnly()...)
	list.Get("", c.ShoppingHandler.GetItems)
	list.Post("", c.ShoppingHandler.AddItem)
	list.Delete("", c.ShoppingHandler.ClearList)
	list.Post("/purchase", c.ShoppingHandler.PurchaseChecked)
	list.Patch("/:id/toggle", c.ShoppingHandler.ToggleChecked)
	list.Delete("/:id", c.ShoppingHandler.DeleteItem)
}
