package main

import (
	"strings"

	"donmenu-backend/internal/admin"
	"donmenu-backend/internal/audit"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/billing"
	"donmenu-backend/internal/cmv"
	"donmenu-backend/internal/combo"
	"donmenu-backend/internal/config"
	"donmenu-backend/internal/dashboard"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/expense"
	"donmenu-backend/internal/financial"
	"donmenu-backend/internal/ingredient"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/menu"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/order"
	"donmenu-backend/internal/recipe"
	"donmenu-backend/internal/revenue"
	"donmenu-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	database.Init(cfg)

	log := logger.Get()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.WithError(err).Error("erro inesperado")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público: site institucional e autenticação
	api.Get("/plans", billing.PublicPlansHandler())
	api.Get("/roadmap", billing.PublicRoadmapHandler())
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Rotas de super admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Restaurantes
	adminRoutes.Post("/restaurants", admin.CreateRestaurantHandler())
	adminRoutes.Get("/restaurants", admin.ListRestaurantsHandler())
	adminRoutes.Get("/restaurants/:id", admin.GetRestaurantHandler())
	adminRoutes.Put("/restaurants/:id", admin.UpdateRestaurantHandler())
	adminRoutes.Delete("/restaurants/:id", admin.DeleteRestaurantHandler())
	adminRoutes.Post("/restaurants/:id/admin", admin.CreateRestaurantAdminHandler())
	adminRoutes.Get("/restaurants/:id/admins", admin.ListRestaurantAdminsHandler())

	// Planos e roadmap
	adminRoutes.Post("/plans", admin.CreatePlanHandler())
	adminRoutes.Put("/plans/:id", admin.UpdatePlanHandler())
	adminRoutes.Delete("/plans/:id", admin.DeletePlanHandler())
	adminRoutes.Post("/roadmap", admin.CreateRoadmapItemHandler())
	adminRoutes.Put("/roadmap/:id", admin.UpdateRoadmapItemHandler())
	adminRoutes.Delete("/roadmap/:id", admin.DeleteRoadmapItemHandler())

	// Insumos
	protected.Get("/ingredients", ingredient.ListIngredientsHandler())
	protected.Post("/ingredients", ingredient.CreateIngredientHandler())
	protected.Put("/ingredients/:id", ingredient.UpdateIngredientHandler())
	protected.Delete("/ingredients/:id", ingredient.DeleteIngredientHandler())

	// Fichas técnicas
	protected.Post("/recipes", recipe.CreateRecipeHandler())
	protected.Get("/recipes", recipe.ListRecipesHandler())
	protected.Get("/recipes/:id", recipe.GetRecipeHandler())
	protected.Put("/recipes/:id", recipe.UpdateRecipeHandler())
	protected.Delete("/recipes/:id", recipe.DeleteRecipeHandler())

	// Cardápio
	protected.Get("/menu-categories", menu.ListCategoriesHandler())
	protected.Post("/menu-categories", menu.CreateCategoryHandler())
	protected.Put("/menu-categories/:id", menu.UpdateCategoryHandler())
	protected.Delete("/menu-categories/:id", menu.DeleteCategoryHandler())
	protected.Get("/menu-items", menu.ListMenuItemsHandler())
	protected.Get("/menu-items/:id", menu.GetMenuItemHandler())
	protected.Post("/menu-items", menu.CreateMenuItemHandler())
	protected.Put("/menu-items/:id", menu.UpdateMenuItemHandler())
	protected.Post("/menu-items/:id/reprice", menu.RepriceMenuItemHandler())
	protected.Delete("/menu-items/:id", menu.DeleteMenuItemHandler())

	// Combos
	protected.Post("/combos", combo.CreateComboHandler())
	protected.Get("/combos", combo.ListCombosHandler())
	protected.Get("/combos/:id", combo.GetComboHandler())
	protected.Put("/combos/:id", combo.UpdateComboHandler())
	protected.Delete("/combos/:id", combo.DeleteComboHandler())

	// Vendas
	protected.Post("/sales", order.CreateSaleHandler())
	protected.Get("/sales", order.ListSalesHandler())
	protected.Get("/sales/:id", order.GetSaleHandler())
	protected.Patch("/sales/:id/status", order.UpdateSaleStatusHandler())
	protected.Delete("/sales/:id", order.DeleteSaleHandler())

	// CMV
	protected.Get("/cmv/summary", cmv.SummaryHandler())
	protected.Get("/cmv/export", cmv.ExportHandler())

	// Faturamento
	protected.Post("/revenues", revenue.CreateRevenueHandler())
	protected.Get("/revenues", revenue.ListRevenuesHandler())
	protected.Get("/revenues/summary", revenue.MonthlySummaryHandler())
	protected.Put("/revenues/:id", revenue.UpdateRevenueHandler())
	protected.Delete("/revenues/:id", revenue.DeleteRevenueHandler())

	// Despesas
	protected.Get("/expense-categories", expense.ListCategoriesHandler())
	protected.Post("/expense-categories", expense.CreateCategoryHandler())
	protected.Delete("/expense-categories/:id", expense.DeleteCategoryHandler())
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/summary", expense.MonthlySummaryHandler())
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// Fechamento financeiro
	protected.Get("/financial/summary", financial.SummaryHandler())
	protected.Post("/financial/close", financial.CloseMonthHandler())
	protected.Get("/financial/reports", financial.ListReportsHandler())

	// Estoque
	protected.Post("/stock/movements", stock.CreateMovementHandler())
	protected.Get("/stock/movements", stock.ListMovementsHandler())
	protected.Post("/stock/waste", stock.CreateWasteHandler())
	protected.Get("/stock/waste", stock.ListWasteHandler())
	protected.Get("/stock/low", stock.LowStockHandler())

	// Painel
	protected.Get("/dashboard", dashboard.OverviewHandler())

	// Assinatura
	protected.Post("/billing/subscribe", billing.SubscribeHandler())
	protected.Get("/billing/subscription", billing.MySubscriptionHandler())
	protected.Post("/billing/cancel", billing.CancelSubscriptionHandler())

	// Auditoria
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.WithField("port", cfg.HTTPPort).Info("servidor iniciado")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("servidor encerrou com erro")
	}
}
