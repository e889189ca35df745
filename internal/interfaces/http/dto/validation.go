package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("partita_iva", validatePartitaIVA)
	}
}

// validatePartitaIVA accepts an Italian VAT number: exactly 11 digits.
func validatePartitaIVA(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
