package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
// The password is always "Secret1!".
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Preferences: models.Preferences{
			AlertThreshold: 3,
			EmailEnabled:   true,
		},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPortfolio creates a portfolio owned by the given user.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID uint) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Portfolio %d", nextID()),
		LastUpdated: time.Now(),
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestHolding creates a stock holding under the given portfolio with
// quantity 10 and average cost 100.
func CreateTestHolding(t *testing.T, db *gorm.DB, portfolioID uint) *models.Holding {
	t.Helper()
	return CreateTestHoldingWithPosition(t, db, portfolioID,
		decimal.NewFromInt(10), decimal.NewFromInt(100))
}

// CreateTestHoldingWithPosition creates a stock holding with the given
// quantity and average cost.
func CreateTestHoldingWithPosition(t *testing.T, db *gorm.DB, portfolioID uint, quantity, averageCost decimal.Decimal) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		PortfolioID: portfolioID,
		Ticker:      fmt.Sprintf("TST%d", nextID()),
		AssetType:   models.AssetTypeStock,
		Quantity:    quantity,
		AverageCost: averageCost,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}
