package services

import (
	"context"

	"gorm.io/gorm"

	"cafebudget/internal/budget"
	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/events"
	"cafebudget/internal/logger"
	"cafebudget/internal/models"
)

// reconciliationService runs finalize and the month summary.
type reconciliationService struct {
	store
}

// NewReconciliationService creates a new ReconciliationServicer.
func NewReconciliationService(db *gorm.DB, engine *budget.Engine, publisher events.Publisher) ReconciliationServicer {
	return &reconciliationService{store: newStore(db, engine, publisher)}
}

func pendingAllocation(in FinalizeInput) (*budget.PendingAllocation, error) {
	switch {
	case in.PendingCategory == "" && in.PendingAmount == nil:
		return nil, nil
	case in.PendingCategory == "" || in.PendingAmount == nil:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"pending_category and pending_amount must be given together")
	}
	if err := validateAmount(*in.PendingAmount, false); err != nil {
		return nil, err
	}
	return &budget.PendingAllocation{Category: in.PendingCategory, Amount: *in.PendingAmount}, nil
}

// FinalizeBudgets scales the month's COGS and Operating expense allocations
// (and their sub-rows) so that, together with payroll, they fit the overall
// budget. All writes happen in one transaction; a dry run plans without
// writing.
func (s *reconciliationService) FinalizeBudgets(ctx context.Context, in FinalizeInput) (*FinalizeResult, error) {
	if err := validateMonth(in.Month); err != nil {
		return nil, err
	}
	pending, err := pendingAllocation(in)
	if err != nil {
		return nil, err
	}

	var plan *budget.FinalizePlan
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		snap, err := loadSnapshot(tx, in.Month)
		if err != nil {
			return err
		}
		plan, err = s.engine.PlanFinalize(snap, pending)
		if err != nil {
			return err
		}
		if in.DryRun {
			return nil
		}
		return applyPlan(tx, plan)
	})
	if err != nil {
		return nil, err
	}

	if plan.Warning != "" {
		logger.Get().Warnw("finalize could not honor the overall budget",
			"month", plan.Month,
			"payroll", plan.Payroll.After.String(),
			"warning", plan.Warning,
		)
	}
	if !in.DryRun {
		s.publish(ctx, events.BudgetFinalized, ResourceMonth, "", plan.Month)
	}
	return finalizeResult(plan, in.DryRun), nil
}

// applyPlan persists the inserted and updated rows of plan. Inserted rows get
// their generated IDs written back into the plan.
func applyPlan(tx *gorm.DB, plan *budget.FinalizePlan) error {
	for i, change := range plan.Updates {
		switch change.Op {
		case budget.OpInserted:
			row := &models.CategoryBudget{
				Month:       plan.Month,
				Category:    change.Category,
				Subcategory: change.Subcategory,
				Amount:      change.New,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			plan.Updates[i].ID = row.ID
		case budget.OpUpdated:
			err := tx.Model(&models.CategoryBudget{}).Where("id = ?", change.ID).Update("amount", change.New).Error
			if err != nil {
				return err
			}
		}
	}

	switch plan.Payroll.Op {
	case budget.OpInserted:
		row := &models.PayrollBudget{Month: plan.Month, Amount: plan.Payroll.After}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		plan.Payroll.ID = row.ID
	case budget.OpUpdated:
		err := tx.Model(&models.PayrollBudget{}).Where("id = ?", plan.Payroll.ID).Update("amount", plan.Payroll.After).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func finalizeResult(plan *budget.FinalizePlan, dryRun bool) *FinalizeResult {
	result := &FinalizeResult{
		Month:   plan.Month,
		Factor:  plan.Factor,
		Updates: make([]BudgetUpdate, 0, len(plan.Updates)),
		Payroll: PayrollUpdate{
			ID:        plan.Payroll.ID,
			Before:    plan.Payroll.Before,
			After:     plan.Payroll.After,
			Operation: string(plan.Payroll.Op),
		},
		Warning: plan.Warning,
		DryRun:  dryRun,
	}
	for _, change := range plan.Updates {
		result.Updates = append(result.Updates, BudgetUpdate{
			ID:          change.ID,
			Category:    change.Category,
			Subcategory: change.Subcategory,
			Old:         change.Old,
			New:         change.New,
			Operation:   string(change.Op),
		})
	}
	return result
}

// GetBudgetSummary reports the month's ceiling, main sum and whether the
// month is overrun under the configured ceiling policy.
func (s *reconciliationService) GetBudgetSummary(ctx context.Context, month string) (*BudgetSummary, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(s.db.WithContext(ctx), month)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	overall, mainSum := snap.OverallAndMainSum()
	totals := snap.Totals()
	summary := &BudgetSummary{
		Month:   month,
		Overall: overall,
		MainSum: mainSum,
		Categories: CategoryTotals{
			COGS:             totals.COGS,
			OperatingExpense: totals.OperatingExpense,
			Payroll:          totals.Payroll,
		},
		PayrollBase:   snap.PayrollBase,
		CeilingPolicy: string(s.engine.Policy().Ceiling),
	}
	if overall != nil {
		remaining := overall.Sub(mainSum)
		summary.Remaining = &remaining
		summary.Overrun = s.engine.Policy().Breaches(mainSum, *overall)
	}
	return summary, nil
}
