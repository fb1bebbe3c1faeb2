package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/services"
)

// MarketHandler serves market quote lookups.
type MarketHandler struct {
	quoteService services.QuoteServicer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(quoteService services.QuoteServicer) *MarketHandler {
	return &MarketHandler{quoteService: quoteService}
}

// GetQuote returns the current market price for a symbol
// @Summary     Get a market quote
// @Description Get the current price for a ticker symbol, served from cache when fresh
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} services.Quote "Quote"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Quote not found"
// @Failure     503 {object} ErrorResponse "Market data unavailable"
// @Router      /market/quote/{symbol} [get]
func (h *MarketHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
