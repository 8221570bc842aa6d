package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type monthInput struct {
	Month string `validate:"budget_month"`
}

type categoryInput struct {
	Category string `validate:"main_category"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestBudgetMonth(t *testing.T) {
	v := newValidate()
	tests := []struct {
		month string
		valid bool
	}{
		{"2025-06", true},
		{"2025-12", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-6", false},
		{"June 2025", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Struct(monthInput{Month: tt.month})
		if (err == nil) != tt.valid {
			t.Errorf("month %q: valid=%v, err=%v", tt.month, tt.valid, err)
		}
	}
}

func TestMainCategory(t *testing.T) {
	v := newValidate()
	tests := []struct {
		category string
		valid    bool
	}{
		{"COGS", true},
		{"cost of goods sold", true},
		{" OPEX ", true},
		{"wages", true},
		{"Marketing", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Struct(categoryInput{Category: tt.category})
		if (err == nil) != tt.valid {
			t.Errorf("category %q: valid=%v, err=%v", tt.category, tt.valid, err)
		}
	}
}
