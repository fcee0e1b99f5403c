package store

import (
	"errors"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStore defines CRUD access to stock and stock volume rows.
type StockStore interface {
	WithTx(tx *gorm.DB) StockStore
	List() ([]models.Stock, error)
	GetByTicker(ticker string) (*models.Stock, error)
	Create(stock *models.Stock) error
	UpdatePrice(ticker string, price decimal.Decimal) error
	Delete(ticker string) error

	GetVolume(stockID uint) (*models.StockVolume, error)
	GetVolumeForUpdate(stockID uint) (*models.StockVolume, error)
	SetVolume(stockID uint, volume int64) error
	AdjustVolume(stockID uint, delta int64) error
}

type stockStore struct {
	db *gorm.DB
}

// NewStockStore creates a new StockStore.
func NewStockStore(db *gorm.DB) StockStore {
	return &stockStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *stockStore) WithTx(tx *gorm.DB) StockStore {
	return &stockStore{db: tx}
}

// List returns all stocks.
func (s *stockStore) List() ([]models.Stock, error) {
	var stocks []models.Stock
	if err := s.db.Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return stocks, nil
}

// GetByTicker returns the stock with the given ticker.
func (s *stockStore) GetByTicker(ticker string) (*models.Stock, error) {
	var stock models.Stock
	if err := s.db.Where("ticker = ?", ticker).First(&stock).Error; err != nil {
		return nil, translate(err, apperrors.ErrStockNotFound)
	}
	return &stock, nil
}

// Create inserts a new stock. A duplicate ticker is a constraint violation.
func (s *stockStore) Create(stock *models.Stock) error {
	if err := s.db.Create(stock).Error; err != nil {
		return translate(err, apperrors.ErrStockNotFound)
	}
	return nil
}

// UpdatePrice updates a stock's current price. A missing ticker is an error.
func (s *stockStore) UpdatePrice(ticker string, price decimal.Decimal) error {
	res := s.db.Model(&models.Stock{}).Where("ticker = ?", ticker).
		Update("current_price", price)
	if res.Error != nil {
		return translate(res.Error, apperrors.ErrStockNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStockNotFound
	}
	return nil
}

// Delete removes a stock and its volume record. Deleting a non-existent
// ticker is not an error.
func (s *stockStore) Delete(ticker string) error {
	var stock models.Stock
	if err := s.db.Where("ticker = ?", ticker).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	if err := s.db.Delete(&models.StockVolume{}, stock.StockID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	if err := s.db.Delete(&models.Stock{}, stock.StockID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// GetVolume returns the volume record for a stock.
func (s *stockStore) GetVolume(stockID uint) (*models.StockVolume, error) {
	var volume models.StockVolume
	if err := s.db.First(&volume, stockID).Error; err != nil {
		return nil, translate(err, apperrors.ErrVolumeNotFound)
	}
	return &volume, nil
}

// GetVolumeForUpdate returns the volume record with its row locked for
// the duration of the surrounding transaction. The engine uses this to
// serialize concurrent trades against the shared volume pool.
func (s *stockStore) GetVolumeForUpdate(stockID uint) (*models.StockVolume, error) {
	var volume models.StockVolume
	if err := lockForUpdate(s.db).First(&volume, stockID).Error; err != nil {
		return nil, translate(err, apperrors.ErrVolumeNotFound)
	}
	return &volume, nil
}

// SetVolume creates or replaces the volume record for a stock.
func (s *stockStore) SetVolume(stockID uint, volume int64) error {
	res := s.db.Model(&models.StockVolume{}).
		Where("stock_id = ?", stockID).Update("volume", volume)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := s.db.Create(&models.StockVolume{StockID: stockID, Volume: volume}).Error; err != nil {
			return translate(err, apperrors.ErrVolumeNotFound)
		}
	}
	return nil
}

// AdjustVolume applies a signed delta to a stock's volume.
// A missing volume record is an error.
func (s *stockStore) AdjustVolume(stockID uint, delta int64) error {
	res := s.db.Model(&models.StockVolume{}).
		Where("stock_id = ?", stockID).
		Update("volume", gorm.Expr("volume + ?", delta))
	if res.Error != nil {
		return translate(res.Error, apperrors.ErrVolumeNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVolumeNotFound
	}
	return nil
}
