// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches exchange-style tickers: 1-10 uppercase characters,
// digits or dots allowed after the first letter.
var tickerRegex = regexp.MustCompile(`^[A-Z][A-Z0-9.]{0,9}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("investor_status", validateInvestorStatus)
	}
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

func validateInvestorStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "inactive", "suspended":
		return true
	}
	return false
}
