// Package validator wraps struct validation for request binding.
package validator

import "github.com/go-playground/validator/v10"

// Func and FieldLevel are re-exported so domain packages can register
// custom tags without importing the underlying library.
type (
	Func       = validator.Func
	FieldLevel = validator.FieldLevel
)

// Validator is an injectable wrapper around go-playground validation.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a value against its field tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a custom tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
