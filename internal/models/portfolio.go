package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio represents a named collection of holdings owned by one user.
// Every read and write must filter by UserID; there is no other access path.
type Portfolio struct {
	Base
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Name        string          `gorm:"size:120;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_value"`
	DailyChange decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"daily_change"`
	LastUpdated time.Time       `json:"last_updated"`

	Holdings []Holding `gorm:"foreignKey:PortfolioID" json:"holdings,omitempty"`
}
