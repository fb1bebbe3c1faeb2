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

	"github.com/syedhamza2135/Portfolio-Pulse/internal/auth"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/config"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/handlers"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/logger"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/middleware"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/services"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Quotes services.QuoteServicer
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
	dsn := fmt.Sprintf("file:integration%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Portfolio{},
		&models.Holding{},
		&models.Transaction{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. Market quotes are served by the given QuoteServicer; pass nil when
// the test does not touch market data.
func setupApp(t *testing.T, quotes services.QuoteServicer) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	cfg := &config.Config{
		JWTSecret: "integration-secret",
		JWTExpiry: 24 * time.Hour,
	}
	tokens := auth.NewTokenService(cfg)

	if quotes == nil {
		quotes = services.NewQuoteService(cfg, nil)
	}

	// Services
	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db)
	holdingService := services.NewHoldingService(db, portfolioService)
	transactionService := services.NewTransactionService(db, portfolioService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	holdingHandler := handlers.NewHoldingHandler(holdingService, quotes)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	marketHandler := handlers.NewMarketHandler(quotes)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(tokens))

	protected.GET("/me", authHandler.GetMe)
	protected.PUT("/me/preferences", authHandler.UpdatePreferences)

	portfolios := protected.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetUserPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolioByID)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)
	portfolios.GET("/:id/transactions", transactionHandler.GetPortfolioTransactions)

	holdings := protected.Group("/holdings")
	holdings.POST("", holdingHandler.CreateHolding)
	holdings.GET("", holdingHandler.GetHoldings)
	holdings.GET("/:id", holdingHandler.GetHoldingByID)
	holdings.PUT("/:id", holdingHandler.UpdateHolding)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)
	holdings.PUT("/:id/refresh-price", holdingHandler.RefreshPrice)

	market := protected.Group("/market")
	market.GET("/quote/:symbol", marketHandler.GetQuote)

	return &testApp{DB: db, Quotes: quotes, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
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

// registerUser registers a new user and returns its ID.
func (app *testApp) registerUser(t *testing.T, email, password string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["id"].(float64)
}

// loginUser logs in and returns the bearer token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// signupAndLogin registers a fresh user and returns its token and ID.
func (app *testApp) signupAndLogin(t *testing.T, email string) (string, float64) {
	t.Helper()
	userID := app.registerUser(t, email, "Aa1!aaaa")
	return app.loginUser(t, email, "Aa1!aaaa"), userID
}

// createPortfolio creates a portfolio and returns its ID.
func (app *testApp) createPortfolio(t *testing.T, token, name string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q}`, name)
	rec := app.request("POST", "/api/portfolios", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create portfolio failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	portfolio := result["portfolio"].(map[string]interface{})
	return portfolio["id"].(float64)
}

// createHolding adds a holding to a portfolio and returns its ID.
func (app *testApp) createHolding(t *testing.T, token string, portfolioID float64, ticker string, quantity, averageCost float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"portfolio_id":%d,"ticker":%q,"asset_type":"stock","quantity":%v,"average_cost":%v}`,
		int(portfolioID), ticker, quantity, averageCost)
	rec := app.request("POST", "/api/holdings", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create holding failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	holding := result["holding"].(map[string]interface{})
	return holding["id"].(float64)
}

// assertErrorCode checks the status and the error code of an error response.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected an error object, got %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}
