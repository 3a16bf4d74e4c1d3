package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/controllers"
	"github.com/fuxconcurseiro/spartajus-backend/backend/middleware"
	"github.com/fuxconcurseiro/spartajus-backend/backend/mirror"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, m *mirror.Exporter) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, m)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	moderatorMiddleware := middleware.ModeratorMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, m)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Daily log and plan routes
	logsController := controllers.NewLogsController(db, cfg, m)
	logs := app.Group("/api/logs", authMiddleware)
	logs.Post("/", logsController.SubmitLog)
	logs.Get("/", logsController.GetLogs)
	logs.Put("/", logsController.ReplaceLogs)
	logs.Get("/:date", logsController.GetLog)
	app.Get("/api/plans", authMiddleware, logsController.GetPlans)
	app.Put("/api/plans/:date", authMiddleware, logsController.UpsertPlan)

	// Derived statistics
	statsController := controllers.NewStatsController(db, cfg)
	stats := app.Group("/api/stats", authMiddleware)
	stats.Get("/overview", statsController.GetOverview)
	stats.Get("/subjects", statsController.GetSubjectDistribution)
	stats.Get("/timeline", statsController.GetTimeline)

	// Community
	leaderboardController := controllers.NewLeaderboardController(db, cfg)
	app.Get("/api/leaderboard", authMiddleware, leaderboardController.GetLeaderboard)

	// Oracle
	oracleController := controllers.NewOracleController(cfg)
	app.Post("/api/oracle/chat", authMiddleware, oracleController.Chat)

	// Moderator routes
	moderatorController := controllers.NewModeratorController(db, cfg, m)
	app.Get("/api/announcements", authMiddleware, moderatorController.ListAnnouncements)

	admin := app.Group("/api/admin", authMiddleware, moderatorMiddleware)
	admin.Get("/users", moderatorController.ListUsers)
	admin.Post("/users", moderatorController.CreateUser)
	admin.Delete("/users/:username", moderatorController.BanUser)
	admin.Put("/users/:username/note", moderatorController.SetNote)
	admin.Get("/users/:username/overview", moderatorController.UserOverview)
	admin.Post("/announcements", moderatorController.CreateAnnouncement)
}
