package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of portfolio transaction.
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "buy"
	TransactionTypeSell     TransactionType = "sell"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction records a trade against a holding. Rows are written when
// holdings are created (buy) or removed (sell) and are read-only afterwards.
type Transaction struct {
	Base
	PortfolioID uint            `gorm:"index;not null" json:"portfolio_id"`
	HoldingID   *uint           `json:"holding_id,omitempty"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Ticker      string          `gorm:"size:10" json:"ticker"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	ExecutedAt  time.Time       `gorm:"not null" json:"executed_at"`

	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
}
