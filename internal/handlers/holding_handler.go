package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/services"
)

// HoldingHandler handles holding-related requests.
type HoldingHandler struct {
	holdingService services.HoldingServicer
	quoteService   services.QuoteServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService services.HoldingServicer, quoteService services.QuoteServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService, quoteService: quoteService}
}

// CreateHoldingRequest represents the request payload for creating a holding.
// Tickers are normalized to uppercase; average cost is kept to four decimal
// places.
type CreateHoldingRequest struct {
	PortfolioID uint    `json:"portfolio_id" binding:"required"`
	Ticker      string  `json:"ticker" binding:"required,ticker"`
	AssetType   string  `json:"asset_type" binding:"required,asset_type"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	AverageCost float64 `json:"average_cost" binding:"gte=0"`
}

// UpdateHoldingRequest represents the request payload for updating a holding.
// At least one field must be present; unspecified fields are left unchanged.
type UpdateHoldingRequest struct {
	Quantity    *float64 `json:"quantity" binding:"omitempty,gt=0"`
	AverageCost *float64 `json:"average_cost" binding:"omitempty,gte=0"`
}

// CreateHolding adds a holding to an owned portfolio
// @Summary     Create a holding
// @Description Add a holding to a portfolio owned by the authenticated user
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateHoldingRequest true "Holding details"
// @Success     201 {object} map[string]interface{} "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings [post]
func (h *HoldingHandler) CreateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.holdingService.CreateHolding(
		userID,
		req.PortfolioID,
		req.Ticker,
		models.AssetType(req.AssetType),
		decimal.NewFromFloat(req.Quantity),
		decimal.NewFromFloat(req.AverageCost),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"holding": holding})
}

// GetHoldings lists holdings for a portfolio
// @Summary     List holdings
// @Description Get the holdings of a portfolio owned by the authenticated user
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       portfolioId query int true "Portfolio ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated holdings"
// @Failure     400 {object} ErrorResponse "Missing portfolioId"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings [get]
func (h *HoldingHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioIDStr := c.Query("portfolioId")
	if portfolioIDStr == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "portfolioId query parameter is required"))
		return
	}
	portfolioID, err := strconv.ParseUint(portfolioIDStr, 10, 32)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid portfolioId"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holdings, err := h.holdingService.GetPortfolioHoldings(userID, uint(portfolioID), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, holdings)
}

// GetHoldingByID returns a single holding
// @Summary     Get a holding
// @Description Get a holding by ID, scoped to the authenticated owner
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} map[string]interface{} "Holding"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings/{id} [get]
func (h *HoldingHandler) GetHoldingByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.GetHoldingByID(userID, holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// UpdateHolding merge-patches a holding
// @Summary     Update a holding
// @Description Update a holding's quantity and/or average cost
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Param       request body UpdateHoldingRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated holding"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings/{id} [put]
func (h *HoldingHandler) UpdateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var quantity, averageCost *decimal.Decimal
	if req.Quantity != nil {
		q := decimal.NewFromFloat(*req.Quantity)
		quantity = &q
	}
	if req.AverageCost != nil {
		a := decimal.NewFromFloat(*req.AverageCost)
		averageCost = &a
	}

	holding, err := h.holdingService.UpdateHolding(userID, holdingID, quantity, averageCost)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// DeleteHolding removes a holding
// @Summary     Delete a holding
// @Description Delete a holding, recording a closing sell transaction
// @Tags        holdings
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.DeleteHolding(userID, holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RefreshPrice fetches the current market price for a holding's ticker and
// stores it on the holding
// @Summary     Refresh a holding's price
// @Description Fetch the latest market quote for the holding's ticker and update its current price
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} map[string]interface{} "Updated holding"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding or quote not found"
// @Failure     503 {object} ErrorResponse "Market data unavailable"
// @Router      /holdings/{id}/refresh-price [put]
func (h *HoldingHandler) RefreshPrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.GetHoldingByID(userID, holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), holding.Ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.holdingService.UpdateHoldingPrice(userID, holdingID, quote.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": updated})
}
