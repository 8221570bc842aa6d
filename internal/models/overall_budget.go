package models

import "github.com/shopspring/decimal"

// OverallBudget is the spending ceiling of one month.
type OverallBudget struct {
	Base
	Month       string          `gorm:"size:7;not null;uniqueIndex" json:"month"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string"`
	Description string          `json:"description,omitempty"`
}
