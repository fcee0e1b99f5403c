package store

import (
	apperrors "investrack/internal/errors"
	"investrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountStore defines CRUD access to account rows.
type AccountStore interface {
	WithTx(tx *gorm.DB) AccountStore
	List() ([]models.Account, error)
	Get(accountNumber uint) (*models.Account, error)
	GetForUpdate(accountNumber uint) (*models.Account, error)
	ListByInvestor(investorID uint) ([]models.Account, error)
	Create(account *models.Account) error
	UpdateBalance(accountNumber uint, delta decimal.Decimal) error
	Delete(accountNumber uint) error
}

type accountStore struct {
	db *gorm.DB
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(db *gorm.DB) AccountStore {
	return &accountStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *accountStore) WithTx(tx *gorm.DB) AccountStore {
	return &accountStore{db: tx}
}

// List returns all accounts.
func (s *accountStore) List() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return accounts, nil
}

// Get returns the account with the given account number.
func (s *accountStore) Get(accountNumber uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, accountNumber).Error; err != nil {
		return nil, translate(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

// GetForUpdate returns the account with its row locked for the duration
// of the surrounding transaction.
func (s *accountStore) GetForUpdate(accountNumber uint) (*models.Account, error) {
	var account models.Account
	if err := lockForUpdate(s.db).First(&account, accountNumber).Error; err != nil {
		return nil, translate(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

// ListByInvestor returns the investor's accounts ordered by account
// number, so the first result is always the earliest-created account.
func (s *accountStore) ListByInvestor(investorID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("investor_id = ?", investorID).
		Order("account_number ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return accounts, nil
}

// Create inserts a new account; the store assigns the account number.
func (s *accountStore) Create(account *models.Account) error {
	if err := s.db.Create(account).Error; err != nil {
		return translate(err, apperrors.ErrAccountNotFound)
	}
	return nil
}

// UpdateBalance applies a signed delta to the account balance.
// A missing account is an error.
func (s *accountStore) UpdateBalance(accountNumber uint, delta decimal.Decimal) error {
	res := s.db.Model(&models.Account{}).
		Where("account_number = ?", accountNumber).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return translate(res.Error, apperrors.ErrAccountNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// Delete removes an account. Deleting a non-existent number is not an error.
func (s *accountStore) Delete(accountNumber uint) error {
	if err := s.db.Delete(&models.Account{}, accountNumber).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
