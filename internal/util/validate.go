package util

import (
	"github.com/go-playground/validator/v10"
)

// Validate exposes the validator in the util package. A `kennitala`
// tag is registered for Icelandic national identifiers, which are
// exactly ten digits.
var Validate *validator.Validate

func init() {
	Validate = validator.New()
	_ = Validate.RegisterValidation("kennitala", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 10 {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}
