package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/services"
)

// PortfolioHandler handles portfolio-related requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// CreatePortfolioRequest represents the request payload for creating a portfolio.
type CreatePortfolioRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=500"`
}

// UpdatePortfolioRequest represents the request payload for updating a
// portfolio. At least one field must be present; unspecified fields are left
// unchanged.
type UpdatePortfolioRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CreatePortfolio handles the creation of a new portfolio
// @Summary     Create a portfolio
// @Description Create a new portfolio for the authenticated user
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePortfolioRequest true "Portfolio details"
// @Success     201 {object} map[string]interface{} "Portfolio created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios [post]
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(userID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"portfolio": portfolio})
}

// GetUserPortfolios lists the authenticated user's portfolios
// @Summary     List portfolios
// @Description Get all portfolios owned by the authenticated user
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated portfolios"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios [get]
func (h *PortfolioHandler) GetUserPortfolios(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolios, err := h.portfolioService.GetUserPortfolios(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

// GetPortfolioByID returns a portfolio with holdings and derived summary
// @Summary     Get a portfolio
// @Description Get a portfolio by ID with its holdings and profit/loss summary
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} map[string]interface{} "Portfolio detail"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolioByID(c *gin.Context) {
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

	detail, err := h.portfolioService.GetPortfolioDetail(userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdatePortfolio merge-patches a portfolio
// @Summary     Update a portfolio
// @Description Update a portfolio's name and/or description
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       request body UpdatePortfolioRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated portfolio"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id} [put]
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
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

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(userID, portfolioID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// DeletePortfolio removes a portfolio
// @Summary     Delete a portfolio
// @Description Delete a portfolio and all of its holdings
// @Tags        portfolios
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id} [delete]
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
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

	if err := h.portfolioService.DeletePortfolio(userID, portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
