package models

import "github.com/shopspring/decimal"

// CategoryBudget is an allocation under a main category. Rows with an empty
// Subcategory are main rows; the others are sub-rows contained by the main
// row of the same month and category.
type CategoryBudget struct {
	Base
	Month       string          `gorm:"size:7;not null;uniqueIndex:idx_category_budgets_key;index" json:"month"`
	Category    string          `gorm:"size:64;not null;uniqueIndex:idx_category_budgets_key" json:"category"`
	Subcategory string          `gorm:"size:128;not null;default:'';uniqueIndex:idx_category_budgets_key" json:"subcategory,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string"`
	Description string          `json:"description,omitempty"`
}

// IsMain reports whether the row is a main-category row.
func (c *CategoryBudget) IsMain() bool {
	return c.Subcategory == ""
}
