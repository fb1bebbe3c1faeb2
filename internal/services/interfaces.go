package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	UpdatePreferences(userID uint, alertThreshold *int, emailEnabled *bool) (*models.User, error)
}

// HoldingValuation is a holding together with its derived values. The
// percentage is omitted when the total cost is zero, where it is undefined.
type HoldingValuation struct {
	models.Holding
	TotalCost         decimal.Decimal  `json:"total_cost"`
	CurrentValue      decimal.Decimal  `json:"current_value"`
	ProfitLoss        decimal.Decimal  `json:"profit_loss"`
	ProfitLossPercent *decimal.Decimal `json:"profit_loss_percent,omitempty"`
}

// PortfolioSummary aggregates derived values across a portfolio's holdings.
type PortfolioSummary struct {
	TotalCost         decimal.Decimal  `json:"total_cost"`
	CurrentValue      decimal.Decimal  `json:"current_value"`
	ProfitLoss        decimal.Decimal  `json:"profit_loss"`
	ProfitLossPercent *decimal.Decimal `json:"profit_loss_percent,omitempty"`
	HoldingCount      int              `json:"holding_count"`
}

// PortfolioDetail is a portfolio with its holdings (oldest first) and summary.
type PortfolioDetail struct {
	models.Portfolio
	Holdings []HoldingValuation `json:"holdings"`
	Summary  PortfolioSummary   `json:"summary"`
}

// PortfolioServicer defines the contract for portfolio-related business logic.
// Every operation is scoped to the calling user; a portfolio owned by someone
// else behaves exactly like one that does not exist.
type PortfolioServicer interface {
	CreatePortfolio(userID uint, name, description string) (*models.Portfolio, error)
	GetUserPortfolios(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolioByID(userID, portfolioID uint) (*models.Portfolio, error)
	GetPortfolioDetail(userID, portfolioID uint) (*PortfolioDetail, error)
	UpdatePortfolio(userID, portfolioID uint, name, description *string) (*models.Portfolio, error)
	DeletePortfolio(userID, portfolioID uint) error
}

// HoldingServicer defines the contract for holding-related business logic.
// A holding's owner is resolved transitively through its parent portfolio.
type HoldingServicer interface {
	CreateHolding(userID, portfolioID uint, ticker string, assetType models.AssetType, quantity, averageCost decimal.Decimal) (*models.Holding, error)
	GetPortfolioHoldings(userID, portfolioID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error)
	GetHoldingByID(userID, holdingID uint) (*models.Holding, error)
	UpdateHolding(userID, holdingID uint, quantity, averageCost *decimal.Decimal) (*models.Holding, error)
	UpdateHoldingPrice(userID, holdingID uint, price decimal.Decimal) (*models.Holding, error)
	DeleteHolding(userID, holdingID uint) error
}

// TransactionServicer defines the contract for reading the transaction log.
type TransactionServicer interface {
	GetPortfolioTransactions(userID, portfolioID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// Quote is a market price for a single symbol.
type Quote struct {
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	RetrievedAt time.Time       `json:"retrieved_at"`
}

// QuoteServicer defines the contract for fetching market quotes.
type QuoteServicer interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}
