package models

import "github.com/shopspring/decimal"

// CompanyBudget is a company-wide monthly figure tracked beside the
// category hierarchy. It is not validated against other budgets.
type CompanyBudget struct {
	Base
	Month       string          `gorm:"size:7;not null;uniqueIndex" json:"month"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string"`
	Description string          `json:"description,omitempty"`
}
