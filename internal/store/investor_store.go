package store

import (
	apperrors "investrack/internal/errors"
	"investrack/internal/models"

	"gorm.io/gorm"
)

// InvestorStore defines CRUD access to investor rows.
type InvestorStore interface {
	WithTx(tx *gorm.DB) InvestorStore
	List() ([]models.Investor, error)
	GetByID(id uint) (*models.Investor, error)
	SearchByName(name string) ([]models.Investor, error)
	Create(investor *models.Investor) error
	UpdateName(id uint, name string) error
	UpdateStatus(id uint, status models.InvestorStatus) error
	Delete(id uint) error
}

type investorStore struct {
	db *gorm.DB
}

// NewInvestorStore creates a new InvestorStore.
func NewInvestorStore(db *gorm.DB) InvestorStore {
	return &investorStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *investorStore) WithTx(tx *gorm.DB) InvestorStore {
	return &investorStore{db: tx}
}

// List returns all investors. An empty table yields an empty slice, not an error.
func (s *investorStore) List() ([]models.Investor, error) {
	var investors []models.Investor
	if err := s.db.Find(&investors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return investors, nil
}

// GetByID returns the investor with the given ID.
func (s *investorStore) GetByID(id uint) (*models.Investor, error) {
	var investor models.Investor
	if err := s.db.First(&investor, id).Error; err != nil {
		return nil, translate(err, apperrors.ErrInvestorNotFound)
	}
	return &investor, nil
}

// SearchByName returns all investors with the given name.
func (s *investorStore) SearchByName(name string) ([]models.Investor, error) {
	var investors []models.Investor
	if err := s.db.Where("name = ?", name).Find(&investors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return investors, nil
}

// Create inserts a new investor; the store assigns the ID.
func (s *investorStore) Create(investor *models.Investor) error {
	if investor.Status == "" {
		investor.Status = models.InvestorStatusActive
	}
	if err := s.db.Create(investor).Error; err != nil {
		return translate(err, apperrors.ErrInvestorNotFound)
	}
	return nil
}

// UpdateName updates an investor's name. A missing investor is an error.
func (s *investorStore) UpdateName(id uint, name string) error {
	return s.updateField(id, "name", name)
}

// UpdateStatus updates an investor's status. A missing investor is an error.
func (s *investorStore) UpdateStatus(id uint, status models.InvestorStatus) error {
	return s.updateField(id, "status", status)
}

func (s *investorStore) updateField(id uint, field string, value interface{}) error {
	res := s.db.Model(&models.Investor{}).Where("id = ?", id).Update(field, value)
	if res.Error != nil {
		return translate(res.Error, apperrors.ErrInvestorNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInvestorNotFound
	}
	return nil
}

// Delete removes an investor. Deleting a non-existent ID is not an error.
func (s *investorStore) Delete(id uint) error {
	if err := s.db.Delete(&models.Investor{}, id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
