package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "investrack/internal/errors"
	"investrack/internal/services"
)

// TradeHandler handles buy/sell requests against the trade engine.
type TradeHandler struct {
	trades services.TradeServicer
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(trades services.TradeServicer) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// TradeRequest represents the request payload for a buy or sell order.
type TradeRequest struct {
	InvestorID uint            `json:"investor_id" binding:"required"`
	Ticker     string          `json:"ticker" binding:"required,ticker"`
	Quantity   int64           `json:"quantity" binding:"required,gt=0"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

// Buy handles a market buy order.
// @Summary     Buy stock
// @Description Buy a fixed quantity at the given price for the investor's account
// @Tags        trades
// @Accept      json
// @Produce     json
// @Param       request body TradeRequest true "Trade details"
// @Success     200 {object} models.TradeReceipt "Trade receipt"
// @Failure     400 {object} ErrorResponse "Invalid trade or insufficient funds/volume"
// @Failure     404 {object} ErrorResponse "Investor, account, or stock not found"
// @Failure     504 {object} ErrorResponse "Transaction timeout"
// @Router      /trades/buy [post]
func (h *TradeHandler) Buy(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidTrade, err.Error()))
		return
	}

	receipt, err := h.trades.Buy(c.Request.Context(), req.InvestorID, req.Ticker, req.Quantity, req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}

// Sell handles a market sell order.
// @Summary     Sell stock
// @Description Sell a fixed quantity at the given price from the investor's account
// @Tags        trades
// @Accept      json
// @Produce     json
// @Param       request body TradeRequest true "Trade details"
// @Success     200 {object} models.TradeReceipt "Trade receipt"
// @Failure     400 {object} ErrorResponse "Invalid trade or insufficient position"
// @Failure     404 {object} ErrorResponse "Investor, account, or stock not found"
// @Failure     504 {object} ErrorResponse "Transaction timeout"
// @Router      /trades/sell [post]
func (h *TradeHandler) Sell(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidTrade, err.Error()))
		return
	}

	receipt, err := h.trades.Sell(c.Request.Context(), req.InvestorID, req.Ticker, req.Quantity, req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}
