package services

import (
	"context"
	"testing"

	"cafebudget/internal/testutil"
)

func TestCreatePayrollBudget(t *testing.T) {
	t.Run("requires_overall_budget", func(t *testing.T) {
		s := setupServices(t)
		_, err := s.payroll.CreatePayrollBudget(context.Background(), monthly("2025-06", "300"))
		testutil.AssertAppError(t, err, "PRECONDITION_FAILED")
	})

	t.Run("floor_is_active_base_pay", func(t *testing.T) {
		s := setupServices(t)
		ctx := context.Background()
		testutil.CreateTestOverallBudget(t, s.db, "2025-06", "2000")
		testutil.CreateTestEmployee(t, s.db, "Ana", "400", true)
		testutil.CreateTestEmployee(t, s.db, "Ben", "350.50", true)
		testutil.CreateTestEmployee(t, s.db, "Cleo", "999", false)

		_, err := s.payroll.CreatePayrollBudget(ctx, monthly("2025-06", "750"))
		testutil.AssertAppError(t, err, "PAYROLL_FLOOR")
		if d := testutil.AppErrorDetails(err); d["payroll_base"] != "750.5" {
			t.Errorf("expected payroll_base 750.5 in details, got %v", d["payroll_base"])
		}

		row, err := s.payroll.CreatePayrollBudget(ctx, monthly("2025-06", "750.50"))
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, row.Amount, "750.5")
	})

	t.Run("empty_roster_accepts_zero", func(t *testing.T) {
		s := setupServices(t)
		testutil.CreateTestOverallBudget(t, s.db, "2025-06", "1000")

		_, err := s.payroll.CreatePayrollBudget(context.Background(), monthly("2025-06", "0"))
		testutil.AssertNoError(t, err)
	})

	t.Run("counts_towards_the_ceiling", func(t *testing.T) {
		s := setupServices(t)
		ctx := context.Background()
		testutil.CreateTestOverallBudget(t, s.db, "2025-06", "1000")
		testutil.CreateTestCategoryBudget(t, s.db, "2025-06", "COGS", "", "400")
		testutil.CreateTestCategoryBudget(t, s.db, "2025-06", "Operating expense", "", "300")

		_, err := s.payroll.CreatePayrollBudget(ctx, monthly("2025-06", "300"))
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
		_, err = s.payroll.CreatePayrollBudget(ctx, monthly("2025-06", "299.99"))
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_month", func(t *testing.T) {
		s := setupServices(t)
		testutil.CreateTestOverallBudget(t, s.db, "2025-06", "1000")
		testutil.CreateTestPayrollBudget(t, s.db, "2025-06", "100")

		_, err := s.payroll.CreatePayrollBudget(context.Background(), monthly("2025-06", "200"))
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")
	})
}

func TestUpdatePayrollBudget(t *testing.T) {
	t.Run("cannot_drop_below_sub_rows", func(t *testing.T) {
		s := setupServices(t)
		testutil.CreateTestOverallBudget(t, s.db, "2025-06", "1000")
		row := testutil.CreateTestPayrollBudget(t, s.db, "2025-06", "300")
		testutil.CreateTestCategoryBudget(t, s.db, "2025-06", "Payroll", "Baristas", "250")

		_, err := s.payroll.UpdatePayrollBudget(context.Background(), row.ID, monthly("2025-06", "200"))
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		updated, err := s.payroll.UpdatePayrollBudget(context.Background(), row.ID, monthly("2025-06", "250"))
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, updated.Amount, "250")
	})

	t.Run("floor_applies_on_update", func(t *testing.T) {
		s := setupServices(t)
		testutil.CreateTestOverallBudget(t, s.db, "2025-06", "1000")
		row := testutil.CreateTestPayrollBudget(t, s.db, "2025-06", "500")
		testutil.CreateTestEmployee(t, s.db, "Ana", "450", true)

		_, err := s.payroll.UpdatePayrollBudget(context.Background(), row.ID, monthly("2025-06", "449.99"))
		testutil.AssertAppError(t, err, "PAYROLL_FLOOR")
	})

	t.Run("move_to_month_without_overall", func(t *testing.T) {
		s := setupServices(t)
		testutil.CreateTestOverallBudget(t, s.db, "2025-07", "1000")
		row := testutil.CreateTestPayrollBudget(t, s.db, "2025-07", "300")

		_, err := s.payroll.UpdatePayrollBudget(context.Background(), row.ID, monthly("2025-08", "300"))
		testutil.AssertAppError(t, err, "PRECONDITION_FAILED")
	})
}

func TestDeletePayrollBudget(t *testing.T) {
	t.Run("current_month_is_protected", func(t *testing.T) {
		s := setupServices(t)
		row := testutil.CreateTestPayrollBudget(t, s.db, "2025-06", "300")

		err := s.payroll.DeletePayrollBudget(context.Background(), row.ID)
		testutil.AssertAppError(t, err, "TEMPORAL_PROTECTION")
	})

	t.Run("with_sub_rows_is_kept", func(t *testing.T) {
		s := setupServices(t)
		row := testutil.CreateTestPayrollBudget(t, s.db, "2025-07", "300")
		testutil.CreateTestCategoryBudget(t, s.db, "2025-07", "Payroll", "Baristas", "100")

		err := s.payroll.DeletePayrollBudget(context.Background(), row.ID)
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
	})

	t.Run("future_month", func(t *testing.T) {
		s := setupServices(t)
		row := testutil.CreateTestPayrollBudget(t, s.db, "2025-07", "300")

		testutil.AssertNoError(t, s.payroll.DeletePayrollBudget(context.Background(), row.ID))
		_, err := s.payroll.GetPayrollBudgetByID(context.Background(), row.ID)
		testutil.AssertAppError(t, err, "PAYROLL_BUDGET_NOT_FOUND")
	})
}
