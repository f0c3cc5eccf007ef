// Package validation validador compartido por los casos de uso; traduce los errores
// de validator/v10 a domain.ValidationError.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return entity.ValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("purchase_for", func(fl validator.FieldLevel) bool {
		return entity.ValidPurchaseFor(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.ValidRole(fl.Field().String())
	})
	return v
}

// Struct valida s y devuelve el primer error como domain.ValidationError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.Invalid(strings.ToLower(fe.Namespace()), "no cumple "+fe.Tag())
	}
	return domain.Invalid("", err.Error())
}

// NonNegative error si d < 0.
func NonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	return nil
}

// Positive error si d <= 0.
func Positive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return domain.Invalid(field, "debe ser mayor que cero")
	}
	return nil
}
