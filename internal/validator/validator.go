// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	tickerRegex  = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,10}$`)
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	digitRegex   = regexp.MustCompile(`\d`)
	nonWordRegex = regexp.MustCompile(`\W`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("password", validatePassword)
	}
}

func validateAssetType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stock", "crypto", "etf":
		return true
	}
	return false
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

// validatePassword enforces the registration password policy: at least six
// characters with one uppercase letter, one digit, and one non-word character.
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 6 {
		return false
	}
	return upperRegex.MatchString(password) &&
		digitRegex.MatchString(password) &&
		nonWordRegex.MatchString(password)
}
