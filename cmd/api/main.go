package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/auth"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/config"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/database"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/handlers"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/logger"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/middleware"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/services"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/validator"

	_ "github.com/syedhamza2135/Portfolio-Pulse/internal/docs" // Import swagger docs
)

// @title           Portfolio Pulse API
// @version         1.0
// @description     Portfolio Pulse is a personal investment portfolio tracker: user accounts, portfolios, and holdings with derived profit/loss.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration once; everything downstream receives it explicitly.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Optional Redis cache for market quotes
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// Register custom request validators
	validator.Register()

	// Token service
	tokens := auth.NewTokenService(cfg)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db)
	holdingService := services.NewHoldingService(db, portfolioService)
	transactionService := services.NewTransactionService(db, portfolioService)
	quoteService := services.NewQuoteService(cfg, cache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	holdingHandler := handlers.NewHoldingHandler(holdingService, quoteService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	marketHandler := handlers.NewMarketHandler(quoteService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// API group
	api := router.Group("/api")

	// Public routes
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(tokens))

	// User profile
	protected.GET("/me", authHandler.GetMe)
	protected.PUT("/me/preferences", authHandler.UpdatePreferences)

	// Portfolio routes
	portfolios := protected.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetUserPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolioByID)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)
	portfolios.GET("/:id/transactions", transactionHandler.GetPortfolioTransactions)

	// Holding routes
	holdings := protected.Group("/holdings")
	holdings.POST("", holdingHandler.CreateHolding)
	holdings.GET("", holdingHandler.GetHoldings)
	holdings.GET("/:id", holdingHandler.GetHoldingByID)
	holdings.PUT("/:id", holdingHandler.UpdateHolding)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)
	holdings.PUT("/:id/refresh-price", holdingHandler.RefreshPrice)

	// Market data routes
	market := protected.Group("/market")
	market.GET("/quote/:symbol", marketHandler.GetQuote)

	log.Infof("Starting Portfolio Pulse API on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
