package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"investrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestInvestor creates an active investor with a unique name.
func CreateTestInvestor(t *testing.T, db *gorm.DB) *models.Investor {
	t.Helper()

	investor := &models.Investor{
		Name:   fmt.Sprintf("Investor %d", nextID()),
		Status: models.InvestorStatusActive,
	}
	if err := db.Create(investor).Error; err != nil {
		t.Fatalf("failed to create test investor: %v", err)
	}
	return investor
}

// CreateTestAccount creates an account with a zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, investorID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, investorID, decimal.Zero)
}

// CreateTestAccountWithBalance creates an account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, investorID uint, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		InvestorID: investorID,
		Balance:    balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestStock creates a stock with the given price and available volume.
func CreateTestStock(t *testing.T, db *gorm.DB, ticker string, price decimal.Decimal, volume int64) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		Ticker:       ticker,
		CurrentPrice: price,
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	if err := db.Create(&models.StockVolume{StockID: stock.StockID, Volume: volume}).Error; err != nil {
		t.Fatalf("failed to create test stock volume: %v", err)
	}
	return stock
}

// CreateTestPosition creates a position row for the given account and ticker.
func CreateTestPosition(t *testing.T, db *gorm.DB, accountNumber uint, ticker string, quantity int64, purchasePrice decimal.Decimal) *models.Position {
	t.Helper()

	position := &models.Position{
		AccountNumber: accountNumber,
		Ticker:        ticker,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
	}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("failed to create test position: %v", err)
	}
	return position
}

// Dec parses a decimal literal, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}
