package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"investrack/internal/models"
	"investrack/internal/pagination"
)

// AccountResolverServicer maps an investor to the account a trade
// settles against. The tx argument lets the trade engine resolve inside
// its own transaction scope; pass the base DB handle otherwise.
type AccountResolverServicer interface {
	Resolve(tx *gorm.DB, investorID uint) (*models.Account, error)
}

// TradeServicer is the transaction engine: immediate market buy/sell of
// a fixed quantity at a given price, applied atomically to the account
// balance, the position row, and the global stock volume.
type TradeServicer interface {
	Buy(ctx context.Context, investorID uint, ticker string, quantity int64, price decimal.Decimal) (*models.TradeReceipt, error)
	Sell(ctx context.Context, investorID uint, ticker string, quantity int64, price decimal.Decimal) (*models.TradeReceipt, error)
}

// HoldingReport is one position valued against the stock's current price.
type HoldingReport struct {
	AccountNumber uint            `json:"account_number"`
	Ticker        string          `json:"ticker"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
}

// PortfolioReport aggregates an investor's cash and holdings.
type PortfolioReport struct {
	InvestorID  uint            `json:"investor_id"`
	Cash        decimal.Decimal `json:"cash"`
	Holdings    []HoldingReport `json:"holdings"`
	StockValue  decimal.Decimal `json:"stock_value"`
	TotalValue  decimal.Decimal `json:"total_value"`
	NumAccounts int             `json:"num_accounts"`
}

// ReportingServicer provides the read-only listings consumed by the
// CLI and the HTTP surface. It never mutates state.
type ReportingServicer interface {
	ListInvestors(page pagination.PageRequest) (*pagination.PageResponse[models.Investor], error)
	ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	AccountHoldings(accountNumber uint) ([]HoldingReport, error)
	InvestorHoldings(investorID uint) ([]HoldingReport, error)
	InvestorPortfolio(investorID uint) (*PortfolioReport, error)
}
