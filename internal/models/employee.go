package models

import "github.com/shopspring/decimal"

// Employee is a roster entry. The roster is maintained elsewhere; this
// service only reads it to derive the payroll floor.
type Employee struct {
	Base
	Name    string          `gorm:"not null" json:"name"`
	Role    string          `json:"role"`
	BasePay decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"base_pay" swaggertype:"string"`
	Active  bool            `gorm:"not null;default:true;index" json:"active"`
}
