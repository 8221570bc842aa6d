package models

import "github.com/shopspring/decimal"

// PayrollBudget is the Payroll main-category budget of a month.
type PayrollBudget struct {
	Base
	Month       string          `gorm:"size:7;not null;uniqueIndex" json:"month"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string"`
	Description string          `json:"description,omitempty"`
}
