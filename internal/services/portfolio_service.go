package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// valueHolding computes the derived values for a single holding:
// totalCost = quantity * averageCost, currentValue = quantity * currentPrice
// (falling back to cost when no price is known), and the resulting P/L.
func valueHolding(h models.Holding) HoldingValuation {
	totalCost := h.Quantity.Mul(h.AverageCost)

	currentValue := totalCost
	if h.CurrentPrice != nil {
		currentValue = h.Quantity.Mul(*h.CurrentPrice)
	}

	v := HoldingValuation{
		Holding:      h,
		TotalCost:    totalCost,
		CurrentValue: currentValue,
		ProfitLoss:   currentValue.Sub(totalCost),
	}
	if !totalCost.IsZero() {
		pct := v.ProfitLoss.Div(totalCost).Mul(oneHundred).Round(2)
		v.ProfitLossPercent = &pct
	}
	return v
}

// summarize aggregates holding valuations into portfolio totals.
func summarize(valuations []HoldingValuation) PortfolioSummary {
	summary := PortfolioSummary{HoldingCount: len(valuations)}
	for _, v := range valuations {
		summary.TotalCost = summary.TotalCost.Add(v.TotalCost)
		summary.CurrentValue = summary.CurrentValue.Add(v.CurrentValue)
	}
	summary.ProfitLoss = summary.CurrentValue.Sub(summary.TotalCost)
	if !summary.TotalCost.IsZero() {
		pct := summary.ProfitLoss.Div(summary.TotalCost).Mul(oneHundred).Round(2)
		summary.ProfitLossPercent = &pct
	}
	return summary
}

// portfolioService handles portfolio-related business logic.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// CreatePortfolio creates a portfolio owned by the given user.
func (s *portfolioService) CreatePortfolio(userID uint, name, description string) (*models.Portfolio, error) {
	portfolio := &models.Portfolio{
		UserID:      userID,
		Name:        name,
		Description: description,
		LastUpdated: time.Now(),
	}

	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return portfolio, nil
}

// GetUserPortfolios lists the caller's portfolios, oldest first.
func (s *portfolioService) GetUserPortfolios(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Portfolio{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Scopes(pagination.Paginate(page)).
		Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(portfolios, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetPortfolioByID retrieves a portfolio, filtered by owner. A portfolio that
// exists under a different user yields PORTFOLIO_NOT_FOUND.
func (s *portfolioService) GetPortfolioByID(userID, portfolioID uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.Where("id = ? AND user_id = ?", portfolioID, userID).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// GetPortfolioDetail returns the portfolio with its holdings (oldest first)
// and the derived cost/value/P-L summary.
func (s *portfolioService) GetPortfolioDetail(userID, portfolioID uint) (*PortfolioDetail, error) {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	var holdings []models.Holding
	if err := s.db.Where("portfolio_id = ?", portfolio.ID).
		Order("created_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	valuations := make([]HoldingValuation, 0, len(holdings))
	for _, h := range holdings {
		valuations = append(valuations, valueHolding(h))
	}

	return &PortfolioDetail{
		Portfolio: *portfolio,
		Holdings:  valuations,
		Summary:   summarize(valuations),
	}, nil
}

// UpdatePortfolio merge-patches name and/or description; unspecified fields
// are left unchanged. Requires at least one field.
func (s *portfolioService) UpdatePortfolio(userID, portfolioID uint, name, description *string) (*models.Portfolio, error) {
	if name == nil && description == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one field is required")
	}

	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"last_updated": time.Now()}
	if name != nil {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}

	if err := s.db.Model(portfolio).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetPortfolioByID(userID, portfolioID)
}

// DeletePortfolio removes an owned portfolio together with its holdings and
// transaction log.
func (s *portfolioService) DeletePortfolio(userID, portfolioID uint) error {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Holding{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(portfolio).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// refreshPortfolioTotals recomputes a portfolio's stored total value from its
// holdings and bumps last_updated. Runs inside the caller's transaction.
func refreshPortfolioTotals(tx *gorm.DB, portfolioID uint) error {
	var holdings []models.Holding
	if err := tx.Where("portfolio_id = ?", portfolioID).Find(&holdings).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(valueHolding(h).CurrentValue)
	}

	if err := tx.Model(&models.Portfolio{}).
		Where("id = ?", portfolioID).
		Updates(map[string]interface{}{
			"total_value":  total,
			"last_updated": time.Now(),
		}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
