package testutil

import (
	"testing"

	"cafebudget/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Amount parses a decimal literal, failing loudly on typos in test tables.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestOverallBudget inserts an overall budget directly, bypassing validation.
func CreateTestOverallBudget(t *testing.T, db *gorm.DB, month, amount string) *models.OverallBudget {
	t.Helper()
	row := &models.OverallBudget{Month: month, Amount: Amount(amount)}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test overall budget: %v", err)
	}
	return row
}

// CreateTestCategoryBudget inserts a category row directly. An empty sub
// creates a main row.
func CreateTestCategoryBudget(t *testing.T, db *gorm.DB, month, category, sub, amount string) *models.CategoryBudget {
	t.Helper()
	row := &models.CategoryBudget{Month: month, Category: category, Subcategory: sub, Amount: Amount(amount)}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test category budget: %v", err)
	}
	return row
}

// CreateTestPayrollBudget inserts a payroll budget directly.
func CreateTestPayrollBudget(t *testing.T, db *gorm.DB, month, amount string) *models.PayrollBudget {
	t.Helper()
	row := &models.PayrollBudget{Month: month, Amount: Amount(amount)}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test payroll budget: %v", err)
	}
	return row
}

// CreateTestCompanyBudget inserts a company budget directly.
func CreateTestCompanyBudget(t *testing.T, db *gorm.DB, month, amount string) *models.CompanyBudget {
	t.Helper()
	row := &models.CompanyBudget{Month: month, Amount: Amount(amount)}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test company budget: %v", err)
	}
	return row
}

// CreateTestEmployee adds a roster entry.
func CreateTestEmployee(t *testing.T, db *gorm.DB, name, basePay string, active bool) *models.Employee {
	t.Helper()
	row := &models.Employee{Name: name, Role: "barista", BasePay: Amount(basePay), Active: true}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test employee: %v", err)
	}
	// Active has a database default, so false must be written explicitly.
	if !active {
		if err := db.Model(row).Update("active", false).Error; err != nil {
			t.Fatalf("failed to deactivate test employee: %v", err)
		}
		row.Active = false
	}
	return row
}
