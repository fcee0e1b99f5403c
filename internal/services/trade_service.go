package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/store"
	"investrack/internal/uuid"
)

// tradeService executes buy/sell trades. Each trade runs as a single
// database transaction: the account row, the stock's volume row, and
// the position row are locked before re-validation, and every write
// lands or none do.
type tradeService struct {
	db        *gorm.DB
	accounts  store.AccountStore
	stocks    store.StockStore
	positions store.PositionStore
	resolver  AccountResolverServicer
	timeout   time.Duration
}

// NewTradeService creates a new TradeServicer. timeout bounds each
// trade transaction; zero means no bound.
func NewTradeService(
	db *gorm.DB,
	accounts store.AccountStore,
	stocks store.StockStore,
	positions store.PositionStore,
	resolver AccountResolverServicer,
	timeout time.Duration,
) TradeServicer {
	return &tradeService{
		db:        db,
		accounts:  accounts,
		stocks:    stocks,
		positions: positions,
		resolver:  resolver,
		timeout:   timeout,
	}
}

// Buy purchases quantity shares of ticker at price for the investor's
// account. It debits the account, decrements the global volume, and
// upserts the position; an existing position keeps its original
// purchase price.
func (s *tradeService) Buy(ctx context.Context, investorID uint, ticker string, quantity int64, price decimal.Decimal) (*models.TradeReceipt, error) {
	if err := validateTrade(ticker, quantity, price); err != nil {
		return nil, err
	}

	ctx, cancel := s.tradeContext(ctx)
	defer cancel()

	cost := price.Mul(decimal.NewFromInt(quantity))

	var receipt *models.TradeReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.resolver.Resolve(tx, investorID)
		if err != nil {
			return err
		}

		// Lock order: account, then volume, then position. Both sides
		// of the engine take locks in this order.
		account, err = s.accounts.WithTx(tx).GetForUpdate(account.AccountNumber)
		if err != nil {
			return err
		}
		stock, err := s.stocks.WithTx(tx).GetByTicker(ticker)
		if err != nil {
			return err
		}
		volume, err := s.stocks.WithTx(tx).GetVolumeForUpdate(stock.StockID)
		if err != nil {
			return err
		}

		if volume.Volume < quantity {
			return apperrors.ErrInsufficientVolume
		}
		if account.Balance.LessThan(cost) {
			return apperrors.ErrInsufficientFunds
		}

		if err := s.accounts.WithTx(tx).UpdateBalance(account.AccountNumber, cost.Neg()); err != nil {
			return err
		}
		if err := s.stocks.WithTx(tx).AdjustVolume(stock.StockID, -quantity); err != nil {
			return err
		}

		positionQty, err := s.upsertPosition(tx, account.AccountNumber, ticker, quantity, price)
		if err != nil {
			return err
		}

		receipt = &models.TradeReceipt{
			Reference:        uuid.New(),
			Side:             models.TradeSideBuy,
			InvestorID:       investorID,
			AccountNumber:    account.AccountNumber,
			Ticker:           ticker,
			Quantity:         quantity,
			Price:            price,
			GrossAmount:      cost,
			NewBalance:       account.Balance.Sub(cost),
			PositionQuantity: positionQty,
			ExecutedAt:       time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTradeError(ctx, err)
	}
	return receipt, nil
}

// Sell disposes of quantity shares of ticker at price for the
// investor's account. It credits the account, increments the global
// volume, and decrements the position, deleting the row when the
// quantity reaches zero.
func (s *tradeService) Sell(ctx context.Context, investorID uint, ticker string, quantity int64, price decimal.Decimal) (*models.TradeReceipt, error) {
	if err := validateTrade(ticker, quantity, price); err != nil {
		return nil, err
	}

	ctx, cancel := s.tradeContext(ctx)
	defer cancel()

	proceeds := price.Mul(decimal.NewFromInt(quantity))

	var receipt *models.TradeReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.resolver.Resolve(tx, investorID)
		if err != nil {
			return err
		}

		account, err = s.accounts.WithTx(tx).GetForUpdate(account.AccountNumber)
		if err != nil {
			return err
		}
		stock, err := s.stocks.WithTx(tx).GetByTicker(ticker)
		if err != nil {
			return err
		}
		if _, err := s.stocks.WithTx(tx).GetVolumeForUpdate(stock.StockID); err != nil {
			return err
		}

		position, err := s.positions.WithTx(tx).GetForUpdate(account.AccountNumber, ticker)
		if err != nil {
			if errors.Is(err, apperrors.ErrPositionNotFound) {
				return apperrors.ErrInsufficientPosition
			}
			return err
		}
		if position.Quantity < quantity {
			return apperrors.ErrInsufficientPosition
		}

		if err := s.accounts.WithTx(tx).UpdateBalance(account.AccountNumber, proceeds); err != nil {
			return err
		}
		if err := s.stocks.WithTx(tx).AdjustVolume(stock.StockID, quantity); err != nil {
			return err
		}

		remaining := position.Quantity - quantity
		if remaining == 0 {
			// Zero-quantity rows are never persisted.
			if err := s.positions.WithTx(tx).Delete(account.AccountNumber, ticker); err != nil {
				return err
			}
		} else {
			if err := s.positions.WithTx(tx).AddQuantity(account.AccountNumber, ticker, -quantity); err != nil {
				return err
			}
		}

		receipt = &models.TradeReceipt{
			Reference:        uuid.New(),
			Side:             models.TradeSideSell,
			InvestorID:       investorID,
			AccountNumber:    account.AccountNumber,
			Ticker:           ticker,
			Quantity:         quantity,
			Price:            price,
			GrossAmount:      proceeds,
			NewBalance:       account.Balance.Add(proceeds),
			PositionQuantity: remaining,
			ExecutedAt:       time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTradeError(ctx, err)
	}
	return receipt, nil
}

// upsertPosition increments an existing position or creates a new one.
// The purchase price recorded on the first buy is sticky: later buys
// change only the quantity.
func (s *tradeService) upsertPosition(tx *gorm.DB, accountNumber uint, ticker string, quantity int64, price decimal.Decimal) (int64, error) {
	position, err := s.positions.WithTx(tx).GetForUpdate(accountNumber, ticker)
	if err == nil {
		if err := s.positions.WithTx(tx).AddQuantity(accountNumber, ticker, quantity); err != nil {
			return 0, err
		}
		return position.Quantity + quantity, nil
	}
	if !errors.Is(err, apperrors.ErrPositionNotFound) {
		return 0, err
	}

	newPosition := &models.Position{
		AccountNumber: accountNumber,
		Ticker:        ticker,
		Quantity:      quantity,
		PurchasePrice: price,
	}
	if err := s.positions.WithTx(tx).Create(newPosition); err != nil {
		return 0, err
	}
	return quantity, nil
}

// validateTrade rejects malformed trade intents before any store access.
func validateTrade(ticker string, quantity int64, price decimal.Decimal) error {
	if ticker == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidTrade, "ticker is required")
	}
	if quantity <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidTrade, "quantity must be greater than zero")
	}
	if !price.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidTrade, "price must be greater than zero")
	}
	return nil
}

// tradeContext bounds the trade transaction with the configured timeout.
func (s *tradeService) tradeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// mapTradeError classifies a failed transaction. Deadline expiry maps
// to the retryable timeout error; typed errors pass through; anything
// else is an internal failure.
func (s *tradeService) mapTradeError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrTransactionTimeout, err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
