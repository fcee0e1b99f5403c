package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a cash-holding container identified by an account number
// and owned by exactly one investor. The account number is assigned by
// the store on creation. Balance is a decimal-exact currency amount;
// the trade engine never lets it go negative, but the data layer does
// not enforce that on its own.
type Account struct {
	AccountNumber uint            `gorm:"primaryKey;autoIncrement" json:"account_number"`
	InvestorID    uint            `gorm:"not null;index" json:"investor_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(19,4);not null" json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relationships
	Positions []Position `gorm:"foreignKey:AccountNumber;references:AccountNumber" json:"positions,omitempty"`
}
