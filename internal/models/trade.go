package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide indicates the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradeReceipt reports the outcome of a completed trade. Receipts are
// transient: they are returned to the caller and never persisted.
type TradeReceipt struct {
	Reference        string          `json:"reference"`
	Side             TradeSide       `json:"side"`
	InvestorID       uint            `json:"investor_id"`
	AccountNumber    uint            `json:"account_number"`
	Ticker           string          `json:"ticker"`
	Quantity         int64           `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	NewBalance       decimal.Decimal `json:"new_balance"`
	PositionQuantity int64           `json:"position_quantity"`
	ExecutedAt       time.Time       `json:"executed_at"`
}
