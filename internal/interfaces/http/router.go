package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitcompany/fitstock-api/internal/application/purchases"
	"github.com/fitcompany/fitstock-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SalesUC     *sales.UseCase
	PurchasesUC *purchases.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ventas y abonos (protegido)
	ventas := protected.Group("/ventas")
	saleHandler := NewSaleHandler(deps.SalesUC)
	ventas.Post("/", saleHandler.Create)
	ventas.Get("/", saleHandler.List)
	ventas.Get("/fiadas", saleHandler.ListCredit)
	ventas.Get("/:id", saleHandler.GetByID)
	ventas.Put("/:id", saleHandler.Replace)
	ventas.Delete("/:id", saleHandler.Delete)
	ventas.Post("/:id/abonos", saleHandler.RegisterPayment)

	// Compras (protegido)
	compras := protected.Group("/compras")
	purchaseHandler := NewPurchaseHandler(deps.PurchasesUC)
	compras.Post("/", purchaseHandler.Create)
	compras.Get("/", purchaseHandler.List)
	compras.Get("/:id", purchaseHandler.GetByID)
	compras.Put("/:id", purchaseHandler.Replace)
	compras.Delete("/:id", purchaseHandler.Delete)
}
