// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cafebudget/internal/budget"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the budget tags to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("budget_month", validateBudgetMonth)
	_ = v.RegisterValidation("main_category", validateMainCategory)
}

func validateBudgetMonth(fl validator.FieldLevel) bool {
	return budget.ValidMonth(fl.Field().String())
}

// validateMainCategory accepts any spelling that normalizes to one of the
// three main categories.
func validateMainCategory(fl validator.FieldLevel) bool {
	return budget.IsMainCategory(budget.NormalizeCategory(fl.Field().String()))
}
