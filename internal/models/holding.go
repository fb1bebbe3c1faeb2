package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType classifies a holding.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeETF    AssetType = "etf"
)

// Holding represents a position in a single ticker within a portfolio. Its
// effective owner is the owner of the parent portfolio; every mutation
// re-resolves the portfolio and checks ownership there.
type Holding struct {
	Base
	PortfolioID     uint             `gorm:"index;not null" json:"portfolio_id"`
	Ticker          string           `gorm:"size:10;not null" json:"ticker"`
	AssetType       AssetType        `gorm:"not null" json:"asset_type"`
	Quantity        decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"quantity"`
	AverageCost     decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"average_cost"`
	CurrentPrice    *decimal.Decimal `gorm:"type:decimal(20,4)" json:"current_price"`
	LastPriceUpdate *time.Time       `json:"last_price_update,omitempty"`

	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
}
