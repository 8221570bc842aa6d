package budget

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "cafebudget/internal/errors"
)

var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func newTestEngine() *Engine {
	return NewEngine(DefaultPolicy(), func() time.Time { return fixedNow })
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

func mainRow(id, category, amount string) Allocation {
	return Allocation{ID: id, Category: category, Amount: dec(amount)}
}

func subRow(id, category, sub, amount string) Allocation {
	return Allocation{ID: id, Category: category, Subcategory: sub, Amount: dec(amount)}
}

func TestRequireOverallBudget(t *testing.T) {
	e := newTestEngine()
	amounts := []string{"0", "0.01", "100", "999999"}
	for _, amount := range amounts {
		s := &Snapshot{Month: "2025-06"}
		err := e.ValidateMainCategory(s, mainRow("", CategoryCOGS, amount))
		assertCode(t, err, "PRECONDITION_FAILED")

		err = e.ValidateSubcategory(s, subRow("", CategoryCOGS, "Beans", amount))
		assertCode(t, err, "PRECONDITION_FAILED")

		err = e.ValidatePayroll(s, dec(amount))
		assertCode(t, err, "PRECONDITION_FAILED")
	}
}

func TestCheckCategorySumWithinOverall(t *testing.T) {
	s := &Snapshot{Month: "2025-06", Overall: ptr(dec("1000"))}

	t.Run("strict", func(t *testing.T) {
		e := newTestEngine()
		if err := e.CheckCategorySumWithinOverall(s, dec("999.99")); err != nil {
			t.Errorf("expected 999.99 to fit, got %v", err)
		}
		err := e.CheckCategorySumWithinOverall(s, dec("1000"))
		assertCode(t, err, "CONSTRAINT_VIOLATION")

		var appErr *apperrors.AppError
		errors.As(err, &appErr)
		if appErr.Details["rule"] != "ceiling" {
			t.Errorf("expected ceiling rule in details, got %v", appErr.Details)
		}
		if appErr.Details["main_sum"] != "1000" || appErr.Details["overall"] != "1000" {
			t.Errorf("expected numeric context in details, got %v", appErr.Details)
		}
	})

	t.Run("inclusive", func(t *testing.T) {
		p := DefaultPolicy()
		p.Ceiling = CeilingInclusive
		e := NewEngine(p, func() time.Time { return fixedNow })
		if err := e.CheckCategorySumWithinOverall(s, dec("1000")); err != nil {
			t.Errorf("inclusive policy should allow touching the ceiling, got %v", err)
		}
		assertCode(t, e.CheckCategorySumWithinOverall(s, dec("1000.01")), "CONSTRAINT_VIOLATION")
	})
}

func TestValidateOverall(t *testing.T) {
	e := newTestEngine()
	s := &Snapshot{
		Month:      "2025-06",
		Overall:    ptr(dec("1000")),
		Categories: []Allocation{mainRow("c1", CategoryCOGS, "400")},
		Payroll:    &Allocation{ID: "p1", Category: CategoryPayroll, Amount: dec("300")},
	}

	if err := e.ValidateOverall(s, dec("800")); err != nil {
		t.Errorf("expected 800 to cover a 700 main sum with room to spare, got %v", err)
	}
	assertCode(t, e.ValidateOverall(s, dec("700")), "CONSTRAINT_VIOLATION")
	assertCode(t, e.ValidateOverall(s, dec("500")), "CONSTRAINT_VIOLATION")

	// COGS and Payroll are the two active categories: 700 > 90% of 750.
	assertCode(t, e.ValidateOverall(s, dec("750")), "CONSTRAINT_VIOLATION")

	empty := &Snapshot{Month: "2025-06"}
	if err := e.ValidateOverall(empty, dec("1")); err != nil {
		t.Errorf("month without allocations accepts any overall amount, got %v", err)
	}
}

func TestReservationRule(t *testing.T) {
	e := newTestEngine()
	s := &Snapshot{
		Month:      "2025-06",
		Overall:    ptr(dec("1000")),
		Categories: []Allocation{mainRow("c1", CategoryCOGS, "500")},
	}

	err := e.ValidateMainCategory(s, mainRow("", CategoryOperatingExpense, "450"))
	assertCode(t, err, "CONSTRAINT_VIOLATION")
	var appErr *apperrors.AppError
	errors.As(err, &appErr)
	if appErr.Details["rule"] != "reservation" {
		t.Errorf("expected reservation rule, got %v", appErr.Details["rule"])
	}

	if err := e.ValidateMainCategory(s, mainRow("", CategoryOperatingExpense, "350")); err != nil {
		t.Errorf("expected 850 <= 900 to pass, got %v", err)
	}

	if err := e.ValidateMainCategory(s, mainRow("", CategoryOperatingExpense, "400")); err != nil {
		t.Errorf("expected exactly 90%% to pass, got %v", err)
	}

	t.Run("three_active_categories_skip_rule", func(t *testing.T) {
		s := &Snapshot{
			Month:      "2025-06",
			Overall:    ptr(dec("1000")),
			Categories: []Allocation{mainRow("c1", CategoryCOGS, "500")},
			Payroll:    &Allocation{ID: "p1", Category: CategoryPayroll, Amount: dec("100")},
		}
		if err := e.ValidateMainCategory(s, mainRow("", CategoryOperatingExpense, "350")); err != nil {
			t.Errorf("expected 950 with three active categories to pass, got %v", err)
		}
	})

	t.Run("single_active_category_skips_rule", func(t *testing.T) {
		s := &Snapshot{Month: "2025-06", Overall: ptr(dec("1000"))}
		if err := e.ValidateMainCategory(s, mainRow("", CategoryCOGS, "950")); err != nil {
			t.Errorf("expected one active category to skip the rule, got %v", err)
		}
	})
}

func TestValidateMainCategoryContainment(t *testing.T) {
	e := newTestEngine()
	s := &Snapshot{
		Month:   "2025-06",
		Overall: ptr(dec("1000")),
		Categories: []Allocation{
			subRow("s1", CategoryCOGS, "Beans", "120"),
			subRow("s2", CategoryCOGS, "Milk", "80"),
		},
	}
	assertCode(t, e.ValidateMainCategory(s, mainRow("", CategoryCOGS, "199.99")), "CONSTRAINT_VIOLATION")
	if err := e.ValidateMainCategory(s, mainRow("", CategoryCOGS, "200")); err != nil {
		t.Errorf("main equal to its sub sum should pass, got %v", err)
	}
}

func TestValidateSubcategory(t *testing.T) {
	e := newTestEngine()
	s := &Snapshot{
		Month:   "2025-06",
		Overall: ptr(dec("1000")),
		Categories: []Allocation{
			mainRow("c1", CategoryCOGS, "300"),
			subRow("s1", CategoryCOGS, "Beans", "200"),
		},
	}

	if err := e.ValidateSubcategory(s, subRow("", CategoryCOGS, "Milk", "100")); err != nil {
		t.Errorf("sub sum equal to main should pass, got %v", err)
	}
	assertCode(t, e.ValidateSubcategory(s, subRow("", CategoryCOGS, "Milk", "100.01")), "CONSTRAINT_VIOLATION")

	// Missing main row.
	assertCode(t, e.ValidateSubcategory(s, subRow("", CategoryOperatingExpense, "Rent", "1")), "PRECONDITION_FAILED")

	// Updating s1 is validated against its siblings only.
	if err := e.ValidateSubcategory(s.Without("s1"), subRow("s1", CategoryCOGS, "Beans", "300")); err != nil {
		t.Errorf("expected update excluding self to pass, got %v", err)
	}
}

func TestValidatePayroll(t *testing.T) {
	e := newTestEngine()
	s := &Snapshot{
		Month:       "2025-06",
		Overall:     ptr(dec("5000")),
		PayrollBase: dec("1800"),
	}

	assertCode(t, e.ValidatePayroll(s, dec("1799.99")), "PAYROLL_FLOOR")
	if err := e.ValidatePayroll(s, dec("1800")); err != nil {
		t.Errorf("payroll equal to base pay should pass, got %v", err)
	}

	t.Run("no_roster", func(t *testing.T) {
		s := &Snapshot{Month: "2025-06", Overall: ptr(dec("5000"))}
		if err := e.ValidatePayroll(s, dec("0")); err != nil {
			t.Errorf("zero base pay must not reject, got %v", err)
		}
	})

	t.Run("ceiling", func(t *testing.T) {
		s := &Snapshot{
			Month:      "2025-06",
			Overall:    ptr(dec("5000")),
			Categories: []Allocation{mainRow("c1", CategoryCOGS, "1000"), mainRow("c2", CategoryOperatingExpense, "1000")},
		}
		assertCode(t, e.ValidatePayroll(s, dec("3000")), "CONSTRAINT_VIOLATION")
	})
}

func TestValidateMainRemoval(t *testing.T) {
	e := newTestEngine()
	s := &Snapshot{
		Month: "2025-07",
		Categories: []Allocation{
			mainRow("c1", CategoryCOGS, "300"),
			subRow("s1", CategoryCOGS, "Beans", "200"),
			mainRow("c2", CategoryOperatingExpense, "300"),
		},
	}
	assertCode(t, e.ValidateMainRemoval(s, CategoryCOGS), "CONSTRAINT_VIOLATION")
	if err := e.ValidateMainRemoval(s, CategoryOperatingExpense); err != nil {
		t.Errorf("main row without sub-rows should be removable, got %v", err)
	}
}

func TestCheckCreationWindow(t *testing.T) {
	e := newTestEngine()
	for _, m := range []string{"2025-06", "2025-07", "2025-08", "2025-09"} {
		if err := e.CheckCreationWindow(m); err != nil {
			t.Errorf("expected %s inside the window, got %v", m, err)
		}
	}
	for _, m := range []string{"2025-05", "2024-12", "2025-10", "2026-06"} {
		assertCode(t, e.CheckCreationWindow(m), "WINDOW_ERROR")
	}
}

func TestCheckDeletable(t *testing.T) {
	e := newTestEngine()
	assertCode(t, e.CheckDeletable("2025-06"), "TEMPORAL_PROTECTION")
	for _, m := range []string{"2025-05", "2025-07"} {
		if err := e.CheckDeletable(m); err != nil {
			t.Errorf("expected %s to be deletable, got %v", m, err)
		}
	}
}
