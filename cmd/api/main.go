package main

import (
	"fmt"
	"net/http"
	"os"

	"investrack/internal/config"
	"investrack/internal/database"
	"investrack/internal/handlers"
	"investrack/internal/logger"
	"investrack/internal/middleware"
	"investrack/internal/services"
	"investrack/internal/store"
	"investrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "investrack/internal/docs" // Import swagger docs
)

// @title           Investrack API
// @version         1.0
// @description     Investrack tracks investors, accounts, and stock positions, and executes buy/sell trades against a shared volume pool.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize stores and services
	db := dbManager.DB()
	investorStore := store.NewInvestorStore(db)
	accountStore := store.NewAccountStore(db)
	stockStore := store.NewStockStore(db)
	positionStore := store.NewPositionStore(db)

	resolver := services.NewAccountResolver(accountStore)
	tradeService := services.NewTradeService(db, accountStore, stockStore, positionStore, resolver, appConfig.TradeTimeout)
	reportingService := services.NewReportingService(db, investorStore, accountStore, stockStore, positionStore)

	// Initialize handlers
	investorHandler := handlers.NewInvestorHandler(investorStore, reportingService)
	accountHandler := handlers.NewAccountHandler(accountStore, investorStore, reportingService)
	stockHandler := handlers.NewStockHandler(stockStore)
	tradeHandler := handlers.NewTradeHandler(tradeService)

	// Register custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Investor routes
	investors := v1.Group("/investors")
	investors.POST("", investorHandler.CreateInvestor)
	investors.GET("", investorHandler.ListInvestors)
	investors.GET("/:id", investorHandler.GetInvestorByID)
	investors.PUT("/:id", investorHandler.UpdateInvestor)
	investors.DELETE("/:id", investorHandler.DeleteInvestor)
	investors.GET("/:id/accounts", accountHandler.ListInvestorAccounts)
	investors.GET("/:id/positions", investorHandler.GetInvestorPositions)
	investors.GET("/:id/portfolio", investorHandler.GetInvestorPortfolio)

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:number", accountHandler.GetAccount)
	accounts.DELETE("/:number", accountHandler.DeleteAccount)
	accounts.GET("/:number/positions", accountHandler.GetAccountPositions)

	// Stock routes
	stocks := v1.Group("/stocks")
	stocks.POST("", stockHandler.CreateStock)
	stocks.GET("", stockHandler.ListStocks)
	stocks.GET("/:ticker", stockHandler.GetStock)
	stocks.PUT("/:ticker/price", stockHandler.UpdateStockPrice)
	stocks.PUT("/:ticker/volume", stockHandler.UpdateStockVolume)
	stocks.DELETE("/:ticker", stockHandler.DeleteStock)

	// Trade routes
	trades := v1.Group("/trades")
	trades.POST("/buy", tradeHandler.Buy)
	trades.POST("/sell", tradeHandler.Sell)

	log.Infof("Starting Investrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
