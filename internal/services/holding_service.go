package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
)

// holdingService handles holding-related business logic.
type holdingService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB, portfolioService PortfolioServicer) HoldingServicer {
	return &holdingService{db: db, portfolioService: portfolioService}
}

// getOwnedHolding loads a holding and verifies, through the parent portfolio,
// that it belongs to the caller. Both an absent holding and one under someone
// else's portfolio yield HOLDING_NOT_FOUND.
func (s *holdingService) getOwnedHolding(userID, holdingID uint) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.First(&holding, holdingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.portfolioService.GetPortfolioByID(userID, holding.PortfolioID); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrPortfolioNotFound.Code {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, err
	}

	return &holding, nil
}

// CreateHolding adds a holding to a portfolio the caller owns and records the
// initial buy in the transaction log.
func (s *holdingService) CreateHolding(userID, portfolioID uint, ticker string, assetType models.AssetType, quantity, averageCost decimal.Decimal) (*models.Holding, error) {
	portfolio, err := s.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if averageCost.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "average_cost must not be negative")
	}

	holding := &models.Holding{
		PortfolioID: portfolio.ID,
		Ticker:      strings.ToUpper(strings.TrimSpace(ticker)),
		AssetType:   assetType,
		Quantity:    quantity,
		AverageCost: averageCost.Round(4),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(holding).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		record := &models.Transaction{
			PortfolioID: portfolio.ID,
			HoldingID:   &holding.ID,
			UserID:      userID,
			Type:        models.TransactionTypeBuy,
			Ticker:      holding.Ticker,
			Quantity:    holding.Quantity,
			Price:       holding.AverageCost,
			ExecutedAt:  time.Now(),
		}
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return refreshPortfolioTotals(tx, portfolio.ID)
	})
	if err != nil {
		return nil, err
	}

	return holding, nil
}

// GetPortfolioHoldings lists a portfolio's holdings, oldest first. The
// portfolio must belong to the caller.
func (s *holdingService) GetPortfolioHoldings(userID, portfolioID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error) {
	portfolio, err := s.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Holding{}).Where("portfolio_id = ?", portfolio.ID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var holdings []models.Holding
	if err := s.db.Where("portfolio_id = ?", portfolio.ID).
		Order("created_at ASC").
		Scopes(pagination.Paginate(page)).
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(holdings, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetHoldingByID retrieves an owned holding.
func (s *holdingService) GetHoldingByID(userID, holdingID uint) (*models.Holding, error) {
	return s.getOwnedHolding(userID, holdingID)
}

// UpdateHolding merge-patches quantity and/or average cost; unspecified
// fields are left unchanged. Requires at least one field.
func (s *holdingService) UpdateHolding(userID, holdingID uint, quantity, averageCost *decimal.Decimal) (*models.Holding, error) {
	if quantity == nil && averageCost == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one field is required")
	}

	holding, err := s.getOwnedHolding(userID, holdingID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if quantity != nil {
		if !quantity.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
		}
		updates["quantity"] = *quantity
	}
	if averageCost != nil {
		if averageCost.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "average_cost must not be negative")
		}
		updates["average_cost"] = averageCost.Round(4)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(holding).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return refreshPortfolioTotals(tx, holding.PortfolioID)
	})
	if err != nil {
		return nil, err
	}

	return s.getOwnedHolding(userID, holdingID)
}

// UpdateHoldingPrice sets the current market price and stamps the update time.
func (s *holdingService) UpdateHoldingPrice(userID, holdingID uint, price decimal.Decimal) (*models.Holding, error) {
	if price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must not be negative")
	}

	holding, err := s.getOwnedHolding(userID, holdingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(holding).Updates(map[string]interface{}{
			"current_price":     price.Round(4),
			"last_price_update": now,
		}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return refreshPortfolioTotals(tx, holding.PortfolioID)
	})
	if err != nil {
		return nil, err
	}

	return s.getOwnedHolding(userID, holdingID)
}

// DeleteHolding removes an owned holding, recording a closing sell at the
// last known price (cost basis when no price was ever fetched).
func (s *holdingService) DeleteHolding(userID, holdingID uint) error {
	holding, err := s.getOwnedHolding(userID, holdingID)
	if err != nil {
		return err
	}

	sellPrice := holding.AverageCost
	if holding.CurrentPrice != nil {
		sellPrice = *holding.CurrentPrice
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		record := &models.Transaction{
			PortfolioID: holding.PortfolioID,
			HoldingID:   &holding.ID,
			UserID:      userID,
			Type:        models.TransactionTypeSell,
			Ticker:      holding.Ticker,
			Quantity:    holding.Quantity,
			Price:       sellPrice,
			ExecutedAt:  time.Now(),
		}
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Delete(holding).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return refreshPortfolioTotals(tx, holding.PortfolioID)
	})
}
