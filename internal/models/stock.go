package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock represents a tradable instrument identified by its ticker.
type Stock struct {
	StockID      uint            `gorm:"primaryKey;autoIncrement" json:"stock_id"`
	Ticker       string          `gorm:"not null;uniqueIndex" json:"ticker"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(19,4);not null" json:"current_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockVolume tracks the globally available tradable quantity of a
// stock, shared across all accounts. Buys decrement it, sells increment
// it; the trade engine serializes access with a row lock.
type StockVolume struct {
	StockID   uint      `gorm:"primaryKey" json:"stock_id"`
	Volume    int64     `gorm:"not null" json:"volume"`
	UpdatedAt time.Time `json:"updated_at"`
}
