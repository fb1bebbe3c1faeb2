package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/services"
)

// TransactionHandler serves the read-only transaction log.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GetPortfolioTransactions lists a portfolio's transactions
// @Summary     List portfolio transactions
// @Description Get the transaction log of a portfolio owned by the authenticated user, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/transactions [get]
func (h *TransactionHandler) GetPortfolioTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactions, err := h.transactionService.GetPortfolioTransactions(userID, portfolioID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
