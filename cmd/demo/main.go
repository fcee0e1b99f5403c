package main

import (
	"context"
	"fmt"
	"os"

	"investrack/internal/config"
	"investrack/internal/database"
	"investrack/internal/logger"
	"investrack/internal/services"
	"investrack/internal/store"

	"github.com/shopspring/decimal"
)

// demo walks the trade engine against live data: it prints the current
// investors and accounts, executes a sample buy and a sample sell, and
// prints the resulting receipts and holdings.
func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Demo error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	investorStore := store.NewInvestorStore(db)
	accountStore := store.NewAccountStore(db)
	stockStore := store.NewStockStore(db)
	positionStore := store.NewPositionStore(db)

	resolver := services.NewAccountResolver(accountStore)
	trades := services.NewTradeService(db, accountStore, stockStore, positionStore, resolver, appConfig.TradeTimeout)
	reporting := services.NewReportingService(db, investorStore, accountStore, stockStore, positionStore)

	investors, err := investorStore.List()
	if err != nil {
		return fmt.Errorf("failed to list investors: %w", err)
	}
	fmt.Println("Investors:")
	for _, inv := range investors {
		fmt.Printf("  id=%d name=%s status=%s\n", inv.ID, inv.Name, inv.Status)
	}

	accounts, err := accountStore.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	fmt.Println("Accounts:")
	for _, acc := range accounts {
		fmt.Printf("  number=%d investor=%d balance=%s\n", acc.AccountNumber, acc.InvestorID, acc.Balance.StringFixed(2))
	}

	ctx := context.Background()

	receipt, err := trades.Buy(ctx, 7, "T", 5, decimal.RequireFromString("9.10"))
	if err != nil {
		logger.Get().Warnf("Buy failed: %v", err)
	} else {
		printReceipt(receipt.Reference, "buy", receipt.Ticker, receipt.Quantity, receipt.Price.StringFixed(2), receipt.NewBalance.StringFixed(2))
	}

	receipt, err = trades.Sell(ctx, 3, "RECO", 5, decimal.RequireFromString("7.00"))
	if err != nil {
		logger.Get().Warnf("Sell failed: %v", err)
	} else {
		printReceipt(receipt.Reference, "sell", receipt.Ticker, receipt.Quantity, receipt.Price.StringFixed(2), receipt.NewBalance.StringFixed(2))
	}

	for _, inv := range investors {
		portfolio, err := reporting.InvestorPortfolio(inv.ID)
		if err != nil {
			logger.Get().Warnf("Portfolio for investor %d failed: %v", inv.ID, err)
			continue
		}
		fmt.Printf("Portfolio for %s: cash=%s stock=%s total=%s\n",
			inv.Name,
			portfolio.Cash.StringFixed(2),
			portfolio.StockValue.StringFixed(2),
			portfolio.TotalValue.StringFixed(2))
		for _, h := range portfolio.Holdings {
			fmt.Printf("  %s x%d @ %s = %s\n", h.Ticker, h.Quantity, h.CurrentPrice.StringFixed(2), h.MarketValue.StringFixed(2))
		}
	}

	return nil
}

func printReceipt(reference, side, ticker string, quantity int64, price, balance string) {
	fmt.Printf("Trade %s: %s %d %s @ %s, new balance %s\n", reference, side, quantity, ticker, price, balance)
}
