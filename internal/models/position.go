package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a held quantity of one ticker within one account,
// composite-keyed by (account_number, ticker). The purchase price
// recorded on the first buy is kept on later increments. A position
// whose quantity reaches zero is deleted, never stored.
type Position struct {
	AccountNumber uint            `gorm:"primaryKey;autoIncrement:false" json:"account_number"`
	Ticker        string          `gorm:"primaryKey" json:"ticker"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(19,4);not null" json:"purchase_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
