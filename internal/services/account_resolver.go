package services

import (
	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/store"
)

// accountResolver picks the account a trade settles against when the
// caller identifies the investor rather than the account. The rule is
// deterministic: the investor's earliest-created account, i.e. the one
// with the lowest account number.
type accountResolver struct {
	accounts store.AccountStore
}

// NewAccountResolver creates a new AccountResolverServicer.
func NewAccountResolver(accounts store.AccountStore) AccountResolverServicer {
	return &accountResolver{accounts: accounts}
}

// Resolve returns the investor's earliest-created account.
// An investor with zero accounts yields ErrNoAccountFound.
func (r *accountResolver) Resolve(tx *gorm.DB, investorID uint) (*models.Account, error) {
	accounts, err := r.accounts.WithTx(tx).ListByInvestor(investorID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.ErrNoAccountFound
	}
	return &accounts[0], nil
}
