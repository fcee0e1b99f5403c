package store

import (
	apperrors "investrack/internal/errors"
	"investrack/internal/models"

	"gorm.io/gorm"
)

// PositionStore defines CRUD access to portfolio position rows.
type PositionStore interface {
	WithTx(tx *gorm.DB) PositionStore
	List() ([]models.Position, error)
	ListByAccount(accountNumber uint) ([]models.Position, error)
	ListByInvestor(investorID uint) ([]models.Position, error)
	Get(accountNumber uint, ticker string) (*models.Position, error)
	GetForUpdate(accountNumber uint, ticker string) (*models.Position, error)
	Create(position *models.Position) error
	AddQuantity(accountNumber uint, ticker string, delta int64) error
	Delete(accountNumber uint, ticker string) error
}

type positionStore struct {
	db *gorm.DB
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(db *gorm.DB) PositionStore {
	return &positionStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *positionStore) WithTx(tx *gorm.DB) PositionStore {
	return &positionStore{db: tx}
}

// List returns all positions.
func (s *positionStore) List() ([]models.Position, error) {
	var positions []models.Position
	if err := s.db.Find(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return positions, nil
}

// ListByAccount returns all positions held in one account.
func (s *positionStore) ListByAccount(accountNumber uint) ([]models.Position, error) {
	var positions []models.Position
	if err := s.db.Where("account_number = ?", accountNumber).
		Find(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return positions, nil
}

// ListByInvestor returns all positions across an investor's accounts,
// joining through the accounts table.
func (s *positionStore) ListByInvestor(investorID uint) ([]models.Position, error) {
	var positions []models.Position
	if err := s.db.Model(&models.Position{}).
		Joins("JOIN accounts a ON a.account_number = positions.account_number").
		Where("a.investor_id = ?", investorID).
		Find(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return positions, nil
}

// Get returns the position for (accountNumber, ticker).
func (s *positionStore) Get(accountNumber uint, ticker string) (*models.Position, error) {
	var position models.Position
	if err := s.db.Where("account_number = ? AND ticker = ?", accountNumber, ticker).
		First(&position).Error; err != nil {
		return nil, translate(err, apperrors.ErrPositionNotFound)
	}
	return &position, nil
}

// GetForUpdate returns the position with its row locked for the
// duration of the surrounding transaction.
func (s *positionStore) GetForUpdate(accountNumber uint, ticker string) (*models.Position, error) {
	var position models.Position
	if err := lockForUpdate(s.db).
		Where("account_number = ? AND ticker = ?", accountNumber, ticker).
		First(&position).Error; err != nil {
		return nil, translate(err, apperrors.ErrPositionNotFound)
	}
	return &position, nil
}

// Create inserts a new position row.
func (s *positionStore) Create(position *models.Position) error {
	if err := s.db.Create(position).Error; err != nil {
		return translate(err, apperrors.ErrPositionNotFound)
	}
	return nil
}

// AddQuantity applies a signed delta to a position's quantity.
// A missing position is an error.
func (s *positionStore) AddQuantity(accountNumber uint, ticker string, delta int64) error {
	res := s.db.Model(&models.Position{}).
		Where("account_number = ? AND ticker = ?", accountNumber, ticker).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return translate(res.Error, apperrors.ErrPositionNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrPositionNotFound
	}
	return nil
}

// Delete removes a position row. Deleting a non-existent position is
// not an error.
func (s *positionStore) Delete(accountNumber uint, ticker string) error {
	if err := s.db.Where("account_number = ? AND ticker = ?", accountNumber, ticker).
		Delete(&models.Position{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
