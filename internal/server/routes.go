package server

import (
	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	incomeHandler *handlers.IncomeHandler,
	billHandler *handlers.BillHandler,
	expenseHandler *handlers.ExpenseHandler,
	balanceHandler *handlers.BalanceHandler,
	settingsHandler *handlers.SettingsHandler,
	summaryHandler *handlers.SummaryHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	cronHandler *handlers.CronHandler,
	authMiddleware echo.MiddlewareFunc,
	adminMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	summaryRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	income := api.Group("/income", authMiddleware)
	income.GET("", incomeHandler.List)
	income.POST("", incomeHandler.Create)
	income.PUT("/:id", incomeHandler.Update)
	income.DELETE("/:id", incomeHandler.Delete)

	bills := api.Group("/bills", authMiddleware)
	bills.GET("", billHandler.List)
	bills.POST("", billHandler.Create)
	bills.PUT("/:id", billHandler.Update)
	bills.DELETE("/:id", billHandler.Delete)

	expenses := api.Group("/expenses", authMiddleware)
	expenses.GET("", expenseHandler.List)
	expenses.POST("", expenseHandler.Create)
	expenses.PUT("/:id", expenseHandler.Update)
	expenses.DELETE("/:id", expenseHandler.Delete)
	expenses.GET("/export/json", expenseHandler.ExportJSON)
	expenses.GET("/export/csv", expenseHandler.ExportCSV)

	balance := api.Group("/balance", authMiddleware)
	balance.GET("", balanceHandler.Get)
	balance.PUT("", balanceHandler.Put)

	settings := api.Group("/settings", authMiddleware)
	settings.GET("", settingsHandler.Get)
	settings.PATCH("", settingsHandler.Patch)

	me := api.Group("/me", authMiddleware)
	me.GET("/summary", summaryHandler.Get, summaryRateLimiter)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)

	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/usage", adminHandler.Usage)

	cron := api.Group("/cron")
	cron.GET("/daily", cronHandler.Daily)
}
