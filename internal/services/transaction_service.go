package services

import (
	"gorm.io/gorm"

	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
)

// transactionService reads the per-portfolio transaction log. Rows are
// produced by the holding service; there is no direct mutation API.
type transactionService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, portfolioService PortfolioServicer) TransactionServicer {
	return &transactionService{db: db, portfolioService: portfolioService}
}

// GetPortfolioTransactions lists a portfolio's transactions, newest first.
// The portfolio must belong to the caller.
func (s *transactionService) GetPortfolioTransactions(userID, portfolioID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	portfolio, err := s.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Transaction{}).Where("portfolio_id = ?", portfolio.ID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("portfolio_id = ?", portfolio.ID).
		Order("executed_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(transactions, page.Page, page.PageSize, total)
	return &resp, nil
}
