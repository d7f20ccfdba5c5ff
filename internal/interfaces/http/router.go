package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockboard-api/internal/application/analytics"
	"github.com/jhoicas/stockboard-api/internal/application/auth"
	"github.com/jhoicas/stockboard-api/internal/application/dto"
	"github.com/jhoicas/stockboard-api/internal/application/usecase"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	RecordUC    *usecase.RecordUseCase
	SlipUC      *usecase.SlipUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{Status: "ok"})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + sesión activa)
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.AuthUC)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	records := NewRecordHandler(deps.RecordUC, deps.SlipUC)

	// Stock
	stock := api.Group("/stock", requireAuth)
	stock.Get("/summary", records.StockSummary)
	stock.Get("/groups", records.StockGroups)
	stock.Get("/", records.List(entity.KindStockItem))
	stock.Post("/", records.Create(entity.KindStockItem))
	stock.Get("/:id", records.Get(entity.KindStockItem))
	stock.Put("/:id", records.Update(entity.KindStockItem))

	// Movimientos (inmutables)
	txs := api.Group("/transactions", requireAuth)
	txs.Get("/", records.List(entity.KindTransaction))
	txs.Post("/", records.Create(entity.KindTransaction))
	txs.Get("/:id", records.Get(entity.KindTransaction))

	// Recepciones y entregas
	operations := []struct {
		path string
		kind entity.Kind
	}{{"/receipts", entity.KindReceipt}, {"/deliveries", entity.KindDelivery}}
	for _, o := range operations {
		path, kind := o.path, o.kind
		ops := api.Group(path, requireAuth)
		ops.Get("/", records.List(kind))
		ops.Post("/", records.Create(kind))
		ops.Get("/:id", records.Get(kind))
		ops.Put("/:id", records.Update(kind))
		ops.Delete("/:id", records.Delete(kind))
		ops.Post("/:id/advance", records.Advance(kind))
		ops.Get("/:id/pdf", records.Slip(kind))
	}

	// Bodegas
	warehouses := api.Group("/warehouses", requireAuth)
	warehouses.Get("/", records.List(entity.KindWarehouse))
	warehouses.Post("/", records.Create(entity.KindWarehouse))
	warehouses.Get("/:id", records.Get(entity.KindWarehouse))
	warehouses.Put("/:id", records.Update(entity.KindWarehouse))
	warehouses.Delete("/:id", records.Delete(entity.KindWarehouse))

	// Dashboard
	dashboard := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", requireAuth, dashboard.GetSummary)
}
