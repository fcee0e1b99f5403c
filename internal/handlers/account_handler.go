package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/pagination"
	"investrack/internal/services"
	"investrack/internal/store"
)

// AccountHandler handles account CRUD requests.
type AccountHandler struct {
	accounts  store.AccountStore
	investors store.InvestorStore
	reporting services.ReportingServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts store.AccountStore, investors store.InvestorStore, reporting services.ReportingServicer) *AccountHandler {
	return &AccountHandler{accounts: accounts, investors: investors, reporting: reporting}
}

// CreateAccountRequest represents the request payload for opening an account.
type CreateAccountRequest struct {
	InvestorID     uint            `json:"investor_id" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// CreateAccount handles opening a new account for an investor.
// @Summary     Open account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.InitialBalance.IsNegative() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative"))
		return
	}

	// The account row holds a non-owning reference; the investor must exist.
	if _, err := h.investors.GetByID(req.InvestorID); err != nil {
		respondWithError(c, err)
		return
	}

	account := &models.Account{
		InvestorID: req.InvestorID,
		Balance:    req.InitialBalance,
	}
	if err := h.accounts.Create(account); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts handles listing all accounts.
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.reporting.ListAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAccount handles fetching one account by number.
// @Summary     Get account
// @Tags        accounts
// @Produce     json
// @Param       number path int true "Account number"
// @Success     200 {object} models.Account "Account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{number} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	number, err := parsePathID(c, "number")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accounts.Get(number)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// ListInvestorAccounts handles listing an investor's accounts.
// @Summary     List investor accounts
// @Tags        accounts
// @Produce     json
// @Param       id path int true "Investor ID"
// @Success     200 {array} models.Account "Accounts"
// @Failure     404 {object} ErrorResponse "Investor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investors/{id}/accounts [get]
func (h *AccountHandler) ListInvestorAccounts(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.investors.GetByID(id); err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accounts.ListByInvestor(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// DeleteAccount handles closing an account.
// @Summary     Delete account
// @Tags        accounts
// @Param       number path int true "Account number"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{number} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	number, err := parsePathID(c, "number")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accounts.Delete(number); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAccountPositions handles listing an account's valued holdings.
// @Summary     Get account holdings
// @Tags        accounts
// @Produce     json
// @Param       number path int true "Account number"
// @Success     200 {array} services.HoldingReport "Holdings"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{number}/positions [get]
func (h *AccountHandler) GetAccountPositions(c *gin.Context) {
	number, err := parsePathID(c, "number")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.reporting.AccountHoldings(number)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}
