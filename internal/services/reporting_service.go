package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/pagination"
	"investrack/internal/store"
)

// reportingService provides read-only listings and valuations. All
// mutation goes through the trade engine or the stores directly.
type reportingService struct {
	db        *gorm.DB
	investors store.InvestorStore
	accounts  store.AccountStore
	stocks    store.StockStore
	positions store.PositionStore
}

// NewReportingService creates a new ReportingServicer.
func NewReportingService(
	db *gorm.DB,
	investors store.InvestorStore,
	accounts store.AccountStore,
	stocks store.StockStore,
	positions store.PositionStore,
) ReportingServicer {
	return &reportingService{
		db:        db,
		investors: investors,
		accounts:  accounts,
		stocks:    stocks,
		positions: positions,
	}
}

// ListInvestors returns a paginated list of all investors.
func (s *reportingService) ListInvestors(page pagination.PageRequest) (*pagination.PageResponse[models.Investor], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Investor{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	var investors []models.Investor
	if err := s.db.Scopes(pagination.Paginate(page)).
		Order("id ASC").Find(&investors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	result := pagination.NewPageResponse(investors, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListAccounts returns a paginated list of all accounts.
func (s *reportingService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Account{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	var accounts []models.Account
	if err := s.db.Scopes(pagination.Paginate(page)).
		Order("account_number ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// AccountHoldings values the positions of one account against current
// stock prices. The account must exist.
func (s *reportingService) AccountHoldings(accountNumber uint) ([]HoldingReport, error) {
	if _, err := s.accounts.Get(accountNumber); err != nil {
		return nil, err
	}

	positions, err := s.positions.ListByAccount(accountNumber)
	if err != nil {
		return nil, err
	}
	return s.valueHoldings(positions)
}

// InvestorHoldings values the positions across all of an investor's
// accounts. The investor must exist.
func (s *reportingService) InvestorHoldings(investorID uint) ([]HoldingReport, error) {
	if _, err := s.investors.GetByID(investorID); err != nil {
		return nil, err
	}

	positions, err := s.positions.ListByInvestor(investorID)
	if err != nil {
		return nil, err
	}
	return s.valueHoldings(positions)
}

// InvestorPortfolio aggregates an investor's cash balances and valued
// holdings into a single report.
func (s *reportingService) InvestorPortfolio(investorID uint) (*PortfolioReport, error) {
	if _, err := s.investors.GetByID(investorID); err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListByInvestor(investorID)
	if err != nil {
		return nil, err
	}

	cash := decimal.Zero
	for i := range accounts {
		cash = cash.Add(accounts[i].Balance)
	}

	positions, err := s.positions.ListByInvestor(investorID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.valueHoldings(positions)
	if err != nil {
		return nil, err
	}

	stockValue := decimal.Zero
	for i := range holdings {
		stockValue = stockValue.Add(holdings[i].MarketValue)
	}

	return &PortfolioReport{
		InvestorID:  investorID,
		Cash:        cash,
		Holdings:    holdings,
		StockValue:  stockValue,
		TotalValue:  cash.Add(stockValue),
		NumAccounts: len(accounts),
	}, nil
}

// valueHoldings joins positions with current stock prices. A position
// whose ticker no longer has a stock row is valued at zero rather than
// failing the whole report.
func (s *reportingService) valueHoldings(positions []models.Position) ([]HoldingReport, error) {
	stocks, err := s.stocks.List()
	if err != nil {
		return nil, err
	}
	priceByTicker := make(map[string]decimal.Decimal, len(stocks))
	for i := range stocks {
		priceByTicker[stocks[i].Ticker] = stocks[i].CurrentPrice
	}

	holdings := make([]HoldingReport, 0, len(positions))
	for i := range positions {
		p := positions[i]
		current := priceByTicker[p.Ticker]
		holdings = append(holdings, HoldingReport{
			AccountNumber: p.AccountNumber,
			Ticker:        p.Ticker,
			Quantity:      p.Quantity,
			PurchasePrice: p.PurchasePrice,
			CurrentPrice:  current,
			MarketValue:   current.Mul(decimal.NewFromInt(p.Quantity)),
		})
	}
	return holdings, nil
}
