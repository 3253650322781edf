package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type (
	SignupInput struct {
		FirstName string `validate:"required,max=100"`
		LastName  string `validate:"max=100"`
		Email     string `validate:"required,max=254"`
		Password  string `validate:"required"`
	}

	AssetInput struct {
		Name     string  `validate:"required,max=200"`
		Type     string  `validate:"required,max=100"`
		Value    float64 `validate:"finite"`
		Currency string  `validate:"omitempty,currency_code"`
	}

	BudgetInput struct {
		MonthlyIncome float64 `validate:"gte=0,finite"`
		Needs         float64 `validate:"gte=0,lte=100"`
		Wants         float64 `validate:"gte=0,lte=100"`
		Savings       float64 `validate:"gte=0,lte=100"`
		Currency      string  `validate:"required,currency_code"`
	}

	BudgetItemInput struct {
		Category    Category `validate:"budget_category"`
		Name        string   `validate:"required,max=200"`
		Amount      float64  `validate:"gte=0,finite"`
		Description string   `validate:"max=500"`
	}
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("budget_category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
		// Currency codes are opaque, only their shape is checked.
		_ = validate.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if len(s) < 2 || len(s) > 10 {
				return false
			}
			for _, r := range s {
				if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
					return false
				}
			}
			return true
		})
		_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return f == f && f <= maxFinite && f >= -maxFinite
		})
	})
	return validate
}

const maxFinite = 1.7976931348623157e308

// Validate checks v against its struct tags and reports every violation as a
// single INVALID_INPUT error.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return WithMessage(ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "finite":
		return field + " must be a finite number"
	case "currency_code":
		return fmt.Sprintf("%s %q is not a currency code", field, fe.Value())
	case "budget_category":
		return fmt.Sprintf("%s must be one of needs, wants, savings", field)
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// NormalizeEmail is applied before storing and comparing emails.
func NormalizeEmail(s string) string {
	return strings.TrimSpace(s)
}
