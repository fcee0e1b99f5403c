package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/pagination"
	"investrack/internal/services"
	"investrack/internal/store"
)

// InvestorHandler handles investor CRUD requests.
type InvestorHandler struct {
	investors store.InvestorStore
	reporting services.ReportingServicer
}

// NewInvestorHandler creates a new InvestorHandler.
func NewInvestorHandler(investors store.InvestorStore, reporting services.ReportingServicer) *InvestorHandler {
	return &InvestorHandler{investors: investors, reporting: reporting}
}

// CreateInvestorRequest represents the request payload for creating an investor.
type CreateInvestorRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=200"`
	Status string `json:"status" binding:"omitempty,investor_status"`
}

// UpdateInvestorRequest represents the request payload for updating an
// investor. Only name and status are mutable; at least one must be set.
type UpdateInvestorRequest struct {
	Name   string `json:"name" binding:"omitempty,min=1,max=200"`
	Status string `json:"status" binding:"omitempty,investor_status"`
}

// CreateInvestor handles creating a new investor.
// @Summary     Create investor
// @Tags        investors
// @Accept      json
// @Produce     json
// @Param       request body CreateInvestorRequest true "Investor details"
// @Success     201 {object} models.Investor "Investor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors [post]
func (h *InvestorHandler) CreateInvestor(c *gin.Context) {
	var req CreateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investor := &models.Investor{
		Name:   req.Name,
		Status: models.InvestorStatus(req.Status),
	}
	if err := h.investors.Create(investor); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"investor": investor})
}

// ListInvestors handles listing investors, optionally filtered by name.
// @Summary     List investors
// @Tags        investors
// @Produce     json
// @Param       name      query string false "Filter by exact name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Investor] "Paginated investors"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors [get]
func (h *InvestorHandler) ListInvestors(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		investors, err := h.investors.SearchByName(name)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"investors": investors})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.reporting.ListInvestors(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetInvestorByID handles fetching one investor.
// @Summary     Get investor
// @Tags        investors
// @Produce     json
// @Param       id path int true "Investor ID"
// @Success     200 {object} models.Investor "Investor"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id} [get]
func (h *InvestorHandler) GetInvestorByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investor, err := h.investors.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investor": investor})
}

// UpdateInvestor handles updating an investor's name and/or status.
// @Summary     Update investor
// @Tags        investors
// @Accept      json
// @Produce     json
// @Param       id      path int                   true "Investor ID"
// @Param       request body UpdateInvestorRequest true "Fields to update"
// @Success     200 {object} models.Investor "Updated investor"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id} [put]
func (h *InvestorHandler) UpdateInvestor(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Name == "" && req.Status == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "nothing to update"))
		return
	}

	if req.Name != "" {
		if err := h.investors.UpdateName(id, req.Name); err != nil {
			respondWithError(c, err)
			return
		}
	}
	if req.Status != "" {
		if err := h.investors.UpdateStatus(id, models.InvestorStatus(req.Status)); err != nil {
			respondWithError(c, err)
			return
		}
	}

	investor, err := h.investors.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investor": investor})
}

// DeleteInvestor handles deleting an investor.
// @Summary     Delete investor
// @Tags        investors
// @Param       id path int true "Investor ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id} [delete]
func (h *InvestorHandler) DeleteInvestor(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investors.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetInvestorPositions handles listing an investor's valued holdings.
// @Summary     Get investor holdings
// @Tags        investors
// @Produce     json
// @Param       id path int true "Investor ID"
// @Success     200 {array} services.HoldingReport "Holdings"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id}/positions [get]
func (h *InvestorHandler) GetInvestorPositions(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.reporting.InvestorHoldings(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetInvestorPortfolio handles the aggregated portfolio report.
// @Summary     Get investor portfolio
// @Tags        investors
// @Produce     json
// @Param       id path int true "Investor ID"
// @Success     200 {object} services.PortfolioReport "Portfolio"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id}/portfolio [get]
func (h *InvestorHandler) GetInvestorPortfolio(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reporting.InvestorPortfolio(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": report})
}
