package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"investrack/internal/models"
	"investrack/internal/store"
	"investrack/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// newTestTradeService wires a trade service over the given database
// with a generous timeout so tests never hit the deadline path.
func newTestTradeService(db *gorm.DB) TradeServicer {
	accounts := store.NewAccountStore(db)
	stocks := store.NewStockStore(db)
	positions := store.NewPositionStore(db)
	resolver := NewAccountResolver(accounts)
	return NewTradeService(db, accounts, stocks, positions, resolver, 30*time.Second)
}

func TestBuy(t *testing.T) {
	t.Run("debits_balance_decrements_volume_creates_position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "100.00"))
		stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 50)

		receipt, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertNoError(t, err)

		if receipt.Reference == "" {
			t.Error("expected non-empty trade reference")
		}
		if receipt.Side != models.TradeSideBuy {
			t.Errorf("expected side buy, got %s", receipt.Side)
		}
		if receipt.AccountNumber != account.AccountNumber {
			t.Errorf("expected account %d, got %d", account.AccountNumber, receipt.AccountNumber)
		}
		testutil.AssertDecimalEqual(t, "50.00", receipt.GrossAmount)
		testutil.AssertDecimalEqual(t, "50.00", receipt.NewBalance)
		if receipt.PositionQuantity != 5 {
			t.Errorf("expected position quantity 5, got %d", receipt.PositionQuantity)
		}

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
		testutil.AssertDecimalEqual(t, "50.00", updated.Balance)

		var volume models.StockVolume
		testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
		if volume.Volume != 45 {
			t.Errorf("expected volume 45, got %d", volume.Volume)
		}

		var position models.Position
		testutil.AssertNoError(t, db.Where("account_number = ? AND ticker = ?", account.AccountNumber, "AAPL").First(&position).Error)
		if position.Quantity != 5 {
			t.Errorf("expected quantity 5, got %d", position.Quantity)
		}
		testutil.AssertDecimalEqual(t, "10.00", position.PurchasePrice)
	})

	t.Run("existing_position_keeps_original_purchase_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "1000.00"))
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 100)

		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertNoError(t, err)
		receipt, err := trades.Buy(context.Background(), investor.ID, "AAPL", 3, testutil.Dec(t, "12.00"))
		testutil.AssertNoError(t, err)

		if receipt.PositionQuantity != 8 {
			t.Errorf("expected position quantity 8, got %d", receipt.PositionQuantity)
		}

		var position models.Position
		testutil.AssertNoError(t, db.Where("account_number = ? AND ticker = ?", account.AccountNumber, "AAPL").First(&position).Error)
		if position.Quantity != 8 {
			t.Errorf("expected quantity 8, got %d", position.Quantity)
		}
		testutil.AssertDecimalEqual(t, "10.00", position.PurchasePrice)
	})

	t.Run("volume_exactly_equal_succeeds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "100.00"))
		stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 5)

		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertNoError(t, err)

		var volume models.StockVolume
		testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
		if volume.Volume != 0 {
			t.Errorf("expected volume 0, got %d", volume.Volume)
		}
	})

	t.Run("insufficient_volume", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "1000.00"))
		stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 5)

		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 6, testutil.Dec(t, "10.00"))
		testutil.AssertAppError(t, err, "INSUFFICIENT_VOLUME")

		// Nothing changed
		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
		testutil.AssertDecimalEqual(t, "1000.00", updated.Balance)
		var volume models.StockVolume
		testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
		if volume.Volume != 5 {
			t.Errorf("expected volume 5, got %d", volume.Volume)
		}
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "49.99"))
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 50)

		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
		testutil.AssertDecimalEqual(t, "49.99", updated.Balance)

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Position{}).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected no positions, got %d", count)
		}
	})

	t.Run("balance_exactly_equal_succeeds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 50)

		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertNoError(t, err)

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
		testutil.AssertDecimalEqual(t, "0.00", updated.Balance)
	})

	t.Run("second_affordable_buy_fails_after_first_drains_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "80.00"))
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 100)

		// Each buy alone is affordable against the starting balance;
		// only one can settle.
		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertNoError(t, err)
		_, err = trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")
	})

	t.Run("unknown_ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "100.00"))

		_, err := trades.Buy(context.Background(), investor.ID, "ZZZZ", 1, testutil.Dec(t, "1.00"))
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})

	t.Run("investor_without_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 50)

		_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 1, testutil.Dec(t, "10.00"))
		testutil.AssertAppError(t, err, "NO_ACCOUNT_FOUND")
	})

	t.Run("invalid_inputs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)

		_, err := trades.Buy(context.Background(), 1, "", 1, testutil.Dec(t, "1.00"))
		testutil.AssertAppError(t, err, "INVALID_TRADE")

		_, err = trades.Buy(context.Background(), 1, "AAPL", 0, testutil.Dec(t, "1.00"))
		testutil.AssertAppError(t, err, "INVALID_TRADE")

		_, err = trades.Buy(context.Background(), 1, "AAPL", -3, testutil.Dec(t, "1.00"))
		testutil.AssertAppError(t, err, "INVALID_TRADE")

		_, err = trades.Buy(context.Background(), 1, "AAPL", 1, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_TRADE")

		_, err = trades.Buy(context.Background(), 1, "AAPL", 1, testutil.Dec(t, "-1.00"))
		testutil.AssertAppError(t, err, "INVALID_TRADE")
	})
}

func TestSell(t *testing.T) {
	t.Run("credits_balance_increments_volume_reduces_position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))
		stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 45)
		testutil.CreateTestPosition(t, db, account.AccountNumber, "AAPL", 8, testutil.Dec(t, "10.00"))

		receipt, err := trades.Sell(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "12.00"))
		testutil.AssertNoError(t, err)

		if receipt.Side != models.TradeSideSell {
			t.Errorf("expected side sell, got %s", receipt.Side)
		}
		testutil.AssertDecimalEqual(t, "60.00", receipt.GrossAmount)
		testutil.AssertDecimalEqual(t, "110.00", receipt.NewBalance)
		if receipt.PositionQuantity != 3 {
			t.Errorf("expected position quantity 3, got %d", receipt.PositionQuantity)
		}

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
		testutil.AssertDecimalEqual(t, "110.00", updated.Balance)

		var volume models.StockVolume
		testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
		if volume.Volume != 50 {
			t.Errorf("expected volume 50, got %d", volume.Volume)
		}

		var position models.Position
		testutil.AssertNoError(t, db.Where("account_number = ? AND ticker = ?", account.AccountNumber, "AAPL").First(&position).Error)
		if position.Quantity != 3 {
			t.Errorf("expected quantity 3, got %d", position.Quantity)
		}
	})

	t.Run("full_sale_deletes_position_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 45)
		testutil.CreateTestPosition(t, db, account.AccountNumber, "AAPL", 5, testutil.Dec(t, "10.00"))

		receipt, err := trades.Sell(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "12.00"))
		testutil.AssertNoError(t, err)

		if receipt.PositionQuantity != 0 {
			t.Errorf("expected position quantity 0, got %d", receipt.PositionQuantity)
		}
		testutil.AssertDecimalEqual(t, "110.00", receipt.NewBalance)

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Position{}).
			Where("account_number = ? AND ticker = ?", account.AccountNumber, "AAPL").
			Count(&count).Error)
		if count != 0 {
			t.Errorf("expected position row deleted, found %d", count)
		}
	})

	t.Run("oversell_leaves_state_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))
		stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 45)
		testutil.CreateTestPosition(t, db, account.AccountNumber, "AAPL", 5, testutil.Dec(t, "10.00"))

		_, err := trades.Sell(context.Background(), investor.ID, "AAPL", 6, testutil.Dec(t, "12.00"))
		testutil.AssertAppError(t, err, "INSUFFICIENT_POSITION")

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
		testutil.AssertDecimalEqual(t, "50.00", updated.Balance)

		var volume models.StockVolume
		testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
		if volume.Volume != 45 {
			t.Errorf("expected volume 45, got %d", volume.Volume)
		}

		var position models.Position
		testutil.AssertNoError(t, db.Where("account_number = ? AND ticker = ?", account.AccountNumber, "AAPL").First(&position).Error)
		if position.Quantity != 5 {
			t.Errorf("expected quantity 5, got %d", position.Quantity)
		}
	})

	t.Run("no_position_for_ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))
		testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 45)

		_, err := trades.Sell(context.Background(), investor.ID, "AAPL", 1, testutil.Dec(t, "12.00"))
		testutil.AssertAppError(t, err, "INSUFFICIENT_POSITION")
	})

	t.Run("unknown_ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)
		investor := testutil.CreateTestInvestor(t, db)
		testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))

		_, err := trades.Sell(context.Background(), investor.ID, "ZZZZ", 1, testutil.Dec(t, "12.00"))
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})

	t.Run("invalid_inputs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		trades := newTestTradeService(db)

		_, err := trades.Sell(context.Background(), 1, "", 1, testutil.Dec(t, "1.00"))
		testutil.AssertAppError(t, err, "INVALID_TRADE")

		_, err = trades.Sell(context.Background(), 1, "AAPL", 0, testutil.Dec(t, "1.00"))
		testutil.AssertAppError(t, err, "INVALID_TRADE")

		_, err = trades.Sell(context.Background(), 1, "AAPL", 1, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_TRADE")
	})
}

func TestBuySellRoundTrip(t *testing.T) {
	// Buy then sell at a higher price; the account nets the difference
	// and the volume pool returns to its starting level.
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	trades := newTestTradeService(db)
	investor := testutil.CreateTestInvestor(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "100.00"))
	stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 50)

	_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
	testutil.AssertNoError(t, err)
	_, err = trades.Sell(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "12.00"))
	testutil.AssertNoError(t, err)

	var updated models.Account
	testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
	testutil.AssertDecimalEqual(t, "110.00", updated.Balance)

	var volume models.StockVolume
	testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
	if volume.Volume != 50 {
		t.Errorf("expected volume 50, got %d", volume.Volume)
	}

	var count int64
	testutil.AssertNoError(t, db.Model(&models.Position{}).Count(&count).Error)
	if count != 0 {
		t.Errorf("expected no positions after round trip, got %d", count)
	}
}

func TestConcurrentBuysDoNotDoubleSpend(t *testing.T) {
	// Two simultaneous buys against a balance that only covers one of them.
	// Whatever the interleaving, the funds must never be spent twice: sqlite
	// serializes the writers, so the loser either re-validates against the
	// drained balance or is rejected by the store.
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	trades := newTestTradeService(db)
	investor := testutil.CreateTestInvestor(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "50.00"))
	stock := testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 100)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := trades.Buy(context.Background(), investor.ID, "AAPL", 5, testutil.Dec(t, "10.00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}
	if successes > 1 {
		t.Fatalf("expected at most one buy to succeed, got %d", successes)
	}

	var updated models.Account
	testutil.AssertNoError(t, db.First(&updated, account.AccountNumber).Error)
	expectedBalance := "50.00"
	expectedVolume := int64(100)
	if successes == 1 {
		expectedBalance = "0.00"
		expectedVolume = 95
	}
	testutil.AssertDecimalEqual(t, expectedBalance, updated.Balance)

	var volume models.StockVolume
	testutil.AssertNoError(t, db.First(&volume, stock.StockID).Error)
	if volume.Volume != expectedVolume {
		t.Errorf("expected volume %d, got %d", expectedVolume, volume.Volume)
	}

	var positions []models.Position
	testutil.AssertNoError(t, db.Find(&positions).Error)
	if len(positions) != successes {
		t.Fatalf("expected %d positions, got %d", successes, len(positions))
	}
	if successes == 1 && positions[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", positions[0].Quantity)
	}
}

func TestTradeTimeout(t *testing.T) {
	// An already-expired context must surface as a timeout, not as an
	// internal error.
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	trades := newTestTradeService(db)
	investor := testutil.CreateTestInvestor(t, db)
	testutil.CreateTestAccountWithBalance(t, db, investor.ID, testutil.Dec(t, "100.00"))
	testutil.CreateTestStock(t, db, "AAPL", testutil.Dec(t, "10.00"), 50)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := trades.Buy(ctx, investor.ID, "AAPL", 1, testutil.Dec(t, "10.00"))
	testutil.AssertAppError(t, err, "TRANSACTION_TIMEOUT")
}
