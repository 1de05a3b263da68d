package usecase

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// identifierLength is the exact byte length of a tenant or realm id.
const identifierLength = 10

// IsValidInput reports whether s is a well-formed tenant or realm id:
// exactly ten bytes, every rune alphabetic (letters and Other_Alphabetic
// marks such as Indic vowel signs) or numeric.
func IsValidInput(s string) bool {
	if len(s) != identifierLength {
		return false
	}
	for _, r := range s {
		if !unicode.In(r, unicode.Letter, unicode.Number, unicode.Other_Alphabetic) {
			return false
		}
	}
	return true
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("tenantrealm", func(fl validator.FieldLevel) bool {
		return IsValidInput(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}
