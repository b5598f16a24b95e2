package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/catalog"
	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/application/planning"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Tokens     *auth.TokenService
	Authorizer auth.Authorizer

	Warehouses *catalog.WarehouseUseCase
	Items      *catalog.ItemUseCase
	Suppliers  *catalog.SupplierUseCase
	Dishes     *catalog.DishUseCase

	Recorder  *inventory.MovementRecorder
	Ledger    *inventory.LedgerQueryUseCase
	Purchases *inventory.PurchaseDocumentProcessor
	Lots      *inventory.LotTracker
	Alerts    *inventory.StockAlertsUseCase

	Counts *count.Workflow
	Sheets *count.SheetUseCase

	Planning *planning.RequirementsUseCase
}

// Router registra las rutas de la API. Todas requieren Bearer Token salvo /health.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.Tokens))

	staff := RequireRole(auth.RoleAdmin, auth.RoleSupervisor, auth.RoleBodeguero, auth.RoleCocina)
	managers := RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	storekeepers := RequireRole(auth.RoleAdmin, auth.RoleSupervisor, auth.RoleBodeguero)

	// Auth
	authHandler := NewAuthHandler(deps.Tokens)
	api.Get("/auth/me", staff, authHandler.Me)
	api.Post("/auth/tokens", RequireRole(auth.RoleAdmin), authHandler.IssueToken)

	// Catálogo
	warehouseHandler := NewWarehouseHandler(deps.Warehouses, deps.Authorizer)
	api.Post("/warehouses", managers, warehouseHandler.Create)
	api.Get("/warehouses", staff, warehouseHandler.List)
	api.Get("/warehouses/:id", staff, warehouseHandler.GetByID)

	catalogHandler := NewCatalogHandler(deps.Items)
	api.Post("/units", managers, catalogHandler.CreateUnit)
	api.Get("/units", staff, catalogHandler.ListUnits)
	api.Post("/categories", managers, catalogHandler.CreateCategory)
	api.Get("/categories", staff, catalogHandler.ListCategories)
	api.Post("/items", managers, catalogHandler.CreateItem)
	api.Get("/items", staff, catalogHandler.ListItems)
	api.Get("/items/:id", staff, catalogHandler.GetItem)

	supplierHandler := NewSupplierHandler(deps.Suppliers)
	api.Post("/suppliers", managers, supplierHandler.Create)
	api.Get("/suppliers", staff, supplierHandler.List)
	api.Get("/suppliers/:id", staff, supplierHandler.GetByID)
	api.Patch("/suppliers/:id", managers, supplierHandler.Update)

	recipeHandler := NewRecipeHandler(deps.Dishes)
	api.Post("/dishes", managers, recipeHandler.Create)
	api.Get("/dishes/:id", staff, recipeHandler.GetByID)
	api.Put("/dishes/:id/recipe", managers, recipeHandler.ReplaceRecipe)
	api.Patch("/dishes/:id", managers, recipeHandler.Update)
	api.Get("/dishes/:id/indicators", staff, recipeHandler.Indicators)
	api.Post("/items/:id/recost", managers, recipeHandler.RecostItem)

	// Movimientos de inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Recorder, deps.Ledger, deps.Purchases, deps.Authorizer)
	inv.Post("/purchases", storekeepers, inventoryHandler.Purchase)
	inv.Post("/adjustments", storekeepers, inventoryHandler.Adjustment)
	inv.Post("/transfers", storekeepers, inventoryHandler.Transfer)
	inv.Post("/consumptions", staff, inventoryHandler.Consumption)
	inv.Post("/waste", staff, inventoryHandler.Waste)
	inv.Post("/purchase-documents", storekeepers, inventoryHandler.RegisterPurchaseDocument)
	inv.Post("/purchase-documents/:id/process", storekeepers, inventoryHandler.ProcessPurchaseDocument)
	inv.Get("/stock/warehouses/:id", staff, inventoryHandler.StockByWarehouse)
	inv.Get("/stock/items/:id", staff, inventoryHandler.StockByItem)
	inv.Get("/movements/items/:id", staff, inventoryHandler.MovementsByItem)
	inv.Get("/movements/warehouses/:id", staff, inventoryHandler.MovementsByWarehouse)

	// Conteos físicos
	counts := api.Group("/counts", storekeepers)
	countHandler := NewCountHandler(deps.Counts, deps.Sheets)
	counts.Post("/", countHandler.Create)
	counts.Get("/:id", countHandler.GetByID)
	counts.Put("/:id/lines", countHandler.SetLine)
	counts.Delete("/:id/lines/:itemId", countHandler.RemoveLine)
	counts.Post("/:id/reconcile", countHandler.Reconcile)
	counts.Patch("/:id/state", countHandler.ChangeState)
	counts.Post("/:id/adjustments", countHandler.ApplyAdjustments)
	counts.Post("/:id/sheet", countHandler.ImportSheet)
	counts.Get("/:id/sheet.pdf", countHandler.ExportSheet)

	// Reportes y planificación
	reportsHandler := NewReportsHandler(deps.Lots, deps.Alerts, deps.Planning, deps.Authorizer)
	api.Get("/reports/lots/expiring", staff, reportsHandler.ExpiringLots)
	api.Get("/reports/lots/expired", staff, reportsHandler.ExpiredLots)
	api.Get("/reports/stock/below-minimum", staff, reportsHandler.BelowMinimum)
	api.Get("/reports/stock/above-maximum", staff, reportsHandler.AboveMaximum)
	api.Post("/planning/requirements", staff, reportsHandler.Requirements)
}
