package services

import (
	"github.com/go-playground/validator/v10"
)

// FormOptionTag is the validation tag that checks a categorical value against the form's choices.
const FormOptionTag = "formoption"

// FormOptionRule validates `formoption=<field>` against the offered values of that field.
func FormOptionRule(options FormOptions) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return options.Offers(fl.Param(), fl.Field().String())
	}
}

// NewProfileValidator validates CustomerProfile with the same `binding` tags gin uses for forms.
func NewProfileValidator(options FormOptions) (*validator.Validate, error) {
	v := validator.New()
	v.SetTagName("binding")
	if err := v.RegisterValidation(FormOptionTag, FormOptionRule(options)); err != nil {
		return nil, err
	}
	return v, nil
}
