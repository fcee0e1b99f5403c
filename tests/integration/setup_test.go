package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"investrack/internal/handlers"
	"investrack/internal/logger"
	"investrack/internal/middleware"
	"investrack/internal/models"
	"investrack/internal/services"
	"investrack/internal/store"
	"investrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Investor{},
		&models.Account{},
		&models.Stock{},
		&models.StockVolume{},
		&models.Position{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Stores and services
	investorStore := store.NewInvestorStore(db)
	accountStore := store.NewAccountStore(db)
	stockStore := store.NewStockStore(db)
	positionStore := store.NewPositionStore(db)

	resolver := services.NewAccountResolver(accountStore)
	tradeService := services.NewTradeService(db, accountStore, stockStore, positionStore, resolver, 30*time.Second)
	reportingService := services.NewReportingService(db, investorStore, accountStore, stockStore, positionStore)

	// Handlers
	investorHandler := handlers.NewInvestorHandler(investorStore, reportingService)
	accountHandler := handlers.NewAccountHandler(accountStore, investorStore, reportingService)
	stockHandler := handlers.NewStockHandler(stockStore)
	tradeHandler := handlers.NewTradeHandler(tradeService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	investors := v1.Group("/investors")
	investors.POST("", investorHandler.CreateInvestor)
	investors.GET("", investorHandler.ListInvestors)
	investors.GET("/:id", investorHandler.GetInvestorByID)
	investors.PUT("/:id", investorHandler.UpdateInvestor)
	investors.DELETE("/:id", investorHandler.DeleteInvestor)
	investors.GET("/:id/accounts", accountHandler.ListInvestorAccounts)
	investors.GET("/:id/positions", investorHandler.GetInvestorPositions)
	investors.GET("/:id/portfolio", investorHandler.GetInvestorPortfolio)

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:number", accountHandler.GetAccount)
	accounts.DELETE("/:number", accountHandler.DeleteAccount)
	accounts.GET("/:number/positions", accountHandler.GetAccountPositions)

	stocks := v1.Group("/stocks")
	stocks.POST("", stockHandler.CreateStock)
	stocks.GET("", stockHandler.ListStocks)
	stocks.GET("/:ticker", stockHandler.GetStock)
	stocks.PUT("/:ticker/price", stockHandler.UpdateStockPrice)
	stocks.PUT("/:ticker/volume", stockHandler.UpdateStockVolume)
	stocks.DELETE("/:ticker", stockHandler.DeleteStock)

	trades := v1.Group("/trades")
	trades.POST("/buy", tradeHandler.Buy)
	trades.POST("/sell", tradeHandler.Sell)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createInvestor creates an investor over the API and returns its ID.
func (app *testApp) createInvestor(t *testing.T, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/investors", fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create investor failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	investor := result["investor"].(map[string]interface{})
	return investor["id"].(float64)
}

// createAccount opens an account for the investor and returns its number.
func (app *testApp) createAccount(t *testing.T, investorID float64, balance string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"investor_id":%.0f,"initial_balance":%q}`, investorID, balance)
	rec := app.request("POST", "/api/v1/accounts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["account_number"].(float64)
}

// createStock lists a stock with an initial price and volume.
func (app *testApp) createStock(t *testing.T, ticker, price string, volume int) {
	t.Helper()
	body := fmt.Sprintf(`{"ticker":%q,"current_price":%q,"volume":%d}`, ticker, price, volume)
	rec := app.request("POST", "/api/v1/stocks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create stock failed: %d %s", rec.Code, rec.Body.String())
	}
}
