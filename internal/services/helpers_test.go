package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cafebudget/internal/budget"
	"cafebudget/internal/events"
	"cafebudget/internal/testutil"
)

// testNow is mid-June 2025; the creation window runs 2025-06 to 2025-09.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *budget.Engine {
	return budget.NewEngine(budget.DefaultPolicy(), func() time.Time { return testNow })
}

func amt(s string) decimal.Decimal { return testutil.Amount(s) }

func monthly(month, amount string) MonthlyBudgetInput {
	return MonthlyBudgetInput{Month: month, Amount: amt(amount)}
}

func category(month, cat, sub, amount string) CategoryBudgetInput {
	return CategoryBudgetInput{Month: month, Category: cat, Subcategory: sub, Amount: amt(amount)}
}

// testServices bundles every budget service over one database and one
// event recorder.
type testServices struct {
	db             *gorm.DB
	recorder       *events.Recorder
	overall        OverallBudgetServicer
	category       CategoryBudgetServicer
	payroll        PayrollBudgetServicer
	company        CompanyBudgetServicer
	reconciliation ReconciliationServicer
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	engine := newTestEngine()
	rec := &events.Recorder{}
	return &testServices{
		db:             db,
		recorder:       rec,
		overall:        NewOverallBudgetService(db, engine, rec),
		category:       NewCategoryBudgetService(db, engine, rec),
		payroll:        NewPayrollBudgetService(db, engine, rec),
		company:        NewCompanyBudgetService(db, engine, rec),
		reconciliation: NewReconciliationService(db, engine, rec),
	}
}
