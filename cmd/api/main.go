package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mizow1/satelite-column11/db"
	"github.com/mizow1/satelite-column11/internal/handler"
	"github.com/mizow1/satelite-column11/internal/proposal"
	"github.com/mizow1/satelite-column11/internal/repository"
	"github.com/mizow1/satelite-column11/pkg/mail"
)

func main() {

	godotenv.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.ConnectRedis(); err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	userRepo := repository.NewUserRepository(db.DB)
	siteRepo := repository.NewSiteRepository(db.DB)
	outlineRepo := repository.NewOutlineRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	usageRepo := repository.NewUsageRepository(db.DB)

	sender := mail.NewSMTPSender()

	authHandler := handler.NewAuthHandler(userRepo, sender)
	siteHandler := handler.NewSiteHandler(siteRepo, userRepo, usageRepo)
	outlineHandler := handler.NewOutlineHandler(outlineRepo, siteRepo, userRepo, usageRepo)
	articleHandler := handler.NewArticleHandler(articleRepo, outlineRepo, userRepo, usageRepo)
	exportHandler := handler.NewExportHandler(articleRepo, outlineRepo, siteRepo)
	usageHandler := handler.NewUsageHandler(usageRepo, userRepo, siteRepo)

	proposalService := proposal.NewService(userRepo, siteRepo, outlineRepo, usageRepo, sender)
	cronHandler := handler.NewCronHandler(proposalService, db.ClaimProposalRun)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", handler.Health)

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/reset-request", authHandler.ResetRequest)
	auth.POST("/reset-confirm", authHandler.ResetConfirm)

	api := r.Group("/api", handler.AuthRequired(userRepo))
	api.GET("/sites", siteHandler.List)
	api.POST("/sites", siteHandler.Create)
	api.GET("/sites/:id", siteHandler.Get)
	api.PUT("/sites/:id", siteHandler.Update)
	api.DELETE("/sites/:id", siteHandler.Delete)
	api.POST("/sites/:id/crawl", siteHandler.Crawl)
	api.POST("/sites/:id/policy", siteHandler.GeneratePolicy)

	api.GET("/sites/:id/outlines", outlineHandler.List)
	api.POST("/sites/:id/outlines", outlineHandler.Generate)
	api.PUT("/sites/:id/outlines", outlineHandler.Rate)
	api.DELETE("/outlines/:id", outlineHandler.Delete)

	api.GET("/articles", articleHandler.List)
	api.POST("/articles", articleHandler.Generate)
	api.PUT("/articles", articleHandler.Rate)
	api.GET("/articles/:id", articleHandler.Get)
	api.PUT("/articles/:id", articleHandler.Update)
	api.DELETE("/articles/:id", articleHandler.Delete)
	api.POST("/articles/bulk-generate", articleHandler.BulkGenerate)

	api.POST("/articles/export", exportHandler.ExportArticles)
	api.POST("/outlines/export", exportHandler.ExportOutlines)

	api.GET("/usage", usageHandler.GetUsage)
	api.GET("/usage/daily", usageHandler.GetDailyUsage)
	api.GET("/usage/by-service", usageHandler.GetUsageByService)
	api.GET("/settings", usageHandler.GetSettings)
	api.PUT("/settings", usageHandler.UpdateSettings)
	api.GET("/dashboard/stats", usageHandler.GetDashboardStats)

	cron := r.Group("/cron", handler.CronAuthRequired(os.Getenv("CRON_SECRET")))
	cron.POST("/daily-proposals", cronHandler.RunDailyProposals)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
