package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/store"
)

// StockHandler handles stock and stock volume requests.
type StockHandler struct {
	stocks store.StockStore
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stocks store.StockStore) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// CreateStockRequest represents the request payload for listing a new stock.
type CreateStockRequest struct {
	Ticker       string          `json:"ticker" binding:"required,ticker"`
	CurrentPrice decimal.Decimal `json:"current_price" binding:"required"`
	Volume       int64           `json:"volume" binding:"gte=0"`
}

// UpdatePriceRequest represents the request payload for updating a stock price.
type UpdatePriceRequest struct {
	CurrentPrice decimal.Decimal `json:"current_price" binding:"required"`
}

// UpdateVolumeRequest represents the request payload for setting available volume.
type UpdateVolumeRequest struct {
	Volume int64 `json:"volume" binding:"gte=0"`
}

// CreateStock handles listing a new stock with its initial volume.
// @Summary     Create stock
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       request body CreateStockRequest true "Stock details"
// @Success     201 {object} models.Stock "Stock created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate ticker"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks [post]
func (h *StockHandler) CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if !req.CurrentPrice.IsPositive() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "current price must be greater than zero"))
		return
	}

	stock := &models.Stock{
		Ticker:       req.Ticker,
		CurrentPrice: req.CurrentPrice,
	}
	if err := h.stocks.Create(stock); err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.stocks.SetVolume(stock.StockID, req.Volume); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"stock": stock})
}

// ListStocks handles listing all stocks.
// @Summary     List stocks
// @Tags        stocks
// @Produce     json
// @Success     200 {array} models.Stock "Stocks"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks [get]
func (h *StockHandler) ListStocks(c *gin.Context) {
	stocks, err := h.stocks.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}

// GetStock handles fetching one stock with its available volume.
// @Summary     Get stock
// @Tags        stocks
// @Produce     json
// @Param       ticker path string true "Ticker"
// @Success     200 {object} models.Stock "Stock"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/{ticker} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	stock, err := h.stocks.GetByTicker(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	volume, err := h.stocks.GetVolume(stock.StockID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock, "volume": volume.Volume})
}

// UpdateStockPrice handles updating a stock's current price.
// @Summary     Update stock price
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       ticker  path string             true "Ticker"
// @Param       request body UpdatePriceRequest true "New price"
// @Success     200 {object} models.Stock "Updated stock"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/{ticker}/price [put]
func (h *StockHandler) UpdateStockPrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if !req.CurrentPrice.IsPositive() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "current price must be greater than zero"))
		return
	}

	ticker := c.Param("ticker")
	if err := h.stocks.UpdatePrice(ticker, req.CurrentPrice); err != nil {
		respondWithError(c, err)
		return
	}

	stock, err := h.stocks.GetByTicker(ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// UpdateStockVolume handles setting a stock's available volume.
// @Summary     Set stock volume
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Param       ticker  path string              true "Ticker"
// @Param       request body UpdateVolumeRequest true "New volume"
// @Success     200 {object} models.StockVolume "Updated volume"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/{ticker}/volume [put]
func (h *StockHandler) UpdateStockVolume(c *gin.Context) {
	var req UpdateVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stock, err := h.stocks.GetByTicker(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.stocks.SetVolume(stock.StockID, req.Volume); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock_id": stock.StockID, "volume": req.Volume})
}

// DeleteStock handles delisting a stock.
// @Summary     Delete stock
// @Tags        stocks
// @Param       ticker path string true "Ticker"
// @Success     204 "Deleted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/{ticker} [delete]
func (h *StockHandler) DeleteStock(c *gin.Context) {
	if err := h.stocks.Delete(c.Param("ticker")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
