package utils

import (
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidateMaxRunes checks a string field holds at most param runes, e.g. `binding:"maxrunes=280"`.
func ValidateMaxRunes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(fl.Field().String()) <= n
}

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("maxrunes", ValidateMaxRunes)
	}
}
