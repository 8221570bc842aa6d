// Package budget implements the month-scoped budget hierarchy rules: category
// normalization, the constraint checks every mutation must pass, and the
// proportional finalize plan that repairs an overrun month.
//
// Everything here is pure. Callers load a Snapshot inside their write
// transaction, ask the Engine whether the proposed change is legal, and only
// then persist.
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "cafebudget/internal/errors"
)

// Engine validates proposed budget states against a Policy.
type Engine struct {
	policy Policy
	now    func() time.Time
}

// NewEngine creates an Engine. now supplies the wall clock used for the
// current month; nil means time.Now.
func NewEngine(policy Policy, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{policy: policy, now: now}
}

// Policy returns the rules the engine enforces.
func (e *Engine) Policy() Policy { return e.policy }

// CurrentMonth returns the YYYY-MM key of the current calendar month.
func (e *Engine) CurrentMonth() string { return MonthOf(e.now()) }

// RequireOverallBudget fails when the month has no overall budget.
func (e *Engine) RequireOverallBudget(s *Snapshot) error {
	if s.Overall != nil {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrPrecondition,
		fmt.Sprintf("Please create an overall budget for %s before adding category budgets.", s.Month),
		map[string]any{"month": s.Month, "missing": "overall_budget"})
}

// CheckCategorySumWithinOverall fails when the proposed main sum breaches the
// overall budget under the ceiling policy.
func (e *Engine) CheckCategorySumWithinOverall(s *Snapshot, proposedMainSum decimal.Decimal) error {
	if err := e.RequireOverallBudget(s); err != nil {
		return err
	}
	overall := *s.Overall
	if !e.policy.Breaches(proposedMainSum, overall) {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrConstraintViolation,
		fmt.Sprintf("Sum of main category budgets including payroll (%s) exceeds the overall budget of %s for %s.",
			FormatAmount(proposedMainSum), FormatAmount(overall), s.Month),
		map[string]any{
			"rule":           "ceiling",
			"month":          s.Month,
			"main_sum":       proposedMainSum.String(),
			"overall":        overall.String(),
			"ceiling_policy": string(e.policy.Ceiling),
		})
}

// CheckOverallNotBelowCategorySum fails when the existing main sum would
// breach a proposed overall amount.
func (e *Engine) CheckOverallNotBelowCategorySum(s *Snapshot, proposedOverall decimal.Decimal) error {
	mainSum := s.MainSum()
	if mainSum.IsZero() || !e.policy.Breaches(mainSum, proposedOverall) {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrConstraintViolation,
		fmt.Sprintf("Main category budgets for %s already total %s; the overall budget must be above that (got %s).",
			s.Month, FormatAmount(mainSum), FormatAmount(proposedOverall)),
		map[string]any{
			"rule":           "ceiling",
			"month":          s.Month,
			"main_sum":       mainSum.String(),
			"overall":        proposedOverall.String(),
			"ceiling_policy": string(e.policy.Ceiling),
		})
}

// CheckReservationRule fails when exactly two of the three main categories are
// non-zero and together exceed the reservation share of the overall budget.
func (e *Engine) CheckReservationRule(month string, overall decimal.Decimal, totals Totals) error {
	active := totals.active()
	if len(active) != 2 {
		return nil
	}
	limit := overall.Mul(e.policy.ReservationRatio)
	combined := totals.Sum()
	if !combined.GreaterThan(limit) {
		return nil
	}
	pct := e.policy.ReservationRatio.Shift(2).String()
	return apperrors.WithDetails(apperrors.ErrConstraintViolation,
		fmt.Sprintf("%s together total %s, above %s%% of the overall budget (%s); keep room for the remaining category.",
			strings.Join(active, " and "), FormatAmount(combined), pct, FormatAmount(limit)),
		map[string]any{
			"rule":              "reservation",
			"month":             month,
			"categories":        active,
			"combined":          combined.String(),
			"limit":             limit.String(),
			"overall":           overall.String(),
			"reservation_ratio": e.policy.ReservationRatio.String(),
		})
}

// CheckPayrollFloor fails when the proposed payroll is below the base pay sum.
func (e *Engine) CheckPayrollFloor(month string, payrollBase, proposed decimal.Decimal) error {
	if !proposed.LessThan(payrollBase) {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrPayrollFloor,
		fmt.Sprintf("Payroll budget %s is below the employees' base pay of %s.",
			FormatAmount(proposed), FormatAmount(payrollBase)),
		map[string]any{
			"month":        month,
			"payroll":      proposed.String(),
			"payroll_base": payrollBase.String(),
		})
}

// CheckSubcategoryContainment fails when sub-rows would exceed their main row.
func (e *Engine) CheckSubcategoryContainment(month, category string, proposedSubSum, mainAmount decimal.Decimal) error {
	if !proposedSubSum.GreaterThan(mainAmount) {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrConstraintViolation,
		fmt.Sprintf("This sub-category budget exceeds the %s budget of %s. Sub-categories would total %s.",
			category, FormatAmount(mainAmount), FormatAmount(proposedSubSum)),
		map[string]any{
			"rule":     "containment",
			"month":    month,
			"category": category,
			"sub_sum":  proposedSubSum.String(),
			"main":     mainAmount.String(),
		})
}

// CheckMainCoversSubcategories fails when a main row would shrink below its sub-rows.
func (e *Engine) CheckMainCoversSubcategories(month, category string, proposedMain, existingSubSum decimal.Decimal) error {
	if !proposedMain.LessThan(existingSubSum) {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrConstraintViolation,
		fmt.Sprintf("Your sub-category budgets total %s, which is higher than the %s budget of %s.",
			FormatAmount(existingSubSum), category, FormatAmount(proposedMain)),
		map[string]any{
			"rule":     "containment",
			"month":    month,
			"category": category,
			"sub_sum":  existingSubSum.String(),
			"main":     proposedMain.String(),
		})
}

// CheckCreationWindow fails when month is before the current month or beyond
// the policy window.
func (e *Engine) CheckCreationWindow(month string) error {
	first, last := CreationWindow(e.now(), e.policy.WindowMonths)
	if month >= first && month <= last {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrWindow,
		fmt.Sprintf("You can only set budgets from %s up to %s. Past and future months are not allowed.", first, last),
		map[string]any{"month": month, "first": first, "last": last})
}

// CheckDeletable fails when month is the current month. Anchor rows of an
// in-progress month may be edited but not removed.
func (e *Engine) CheckDeletable(month string) error {
	if month != e.CurrentMonth() {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrTemporalProtection,
		fmt.Sprintf("Ongoing budget for %s can not be deleted; edit it instead.", month),
		map[string]any{"month": month})
}

// ValidateOverall checks a proposed overall amount against the month's
// existing allocations.
func (e *Engine) ValidateOverall(s *Snapshot, amount decimal.Decimal) error {
	if err := e.CheckOverallNotBelowCategorySum(s, amount); err != nil {
		return err
	}
	return e.CheckReservationRule(s.Month, amount, s.Totals())
}

// ValidateMainCategory checks a COGS or Operating expense main row. s must
// not contain the row being written.
func (e *Engine) ValidateMainCategory(s *Snapshot, a Allocation) error {
	if err := e.RequireOverallBudget(s); err != nil {
		return err
	}
	if err := e.CheckCategorySumWithinOverall(s, s.MainSum().Add(a.Amount)); err != nil {
		return err
	}
	if err := e.CheckReservationRule(s.Month, *s.Overall, s.Totals().With(a.Category, a.Amount)); err != nil {
		return err
	}
	return e.CheckMainCoversSubcategories(s.Month, a.Category, a.Amount, s.SubSum(a.Category))
}

// ValidatePayroll checks a payroll budget amount. s must not contain the
// payroll row being written.
func (e *Engine) ValidatePayroll(s *Snapshot, amount decimal.Decimal) error {
	if err := e.RequireOverallBudget(s); err != nil {
		return err
	}
	if err := e.CheckCategorySumWithinOverall(s, s.MainSum().Add(amount)); err != nil {
		return err
	}
	if err := e.CheckReservationRule(s.Month, *s.Overall, s.Totals().With(CategoryPayroll, amount)); err != nil {
		return err
	}
	if err := e.CheckPayrollFloor(s.Month, s.PayrollBase, amount); err != nil {
		return err
	}
	return e.CheckMainCoversSubcategories(s.Month, CategoryPayroll, amount, s.SubSum(CategoryPayroll))
}

// ValidateSubcategory checks a sub-row. s must not contain the row being written.
func (e *Engine) ValidateSubcategory(s *Snapshot, a Allocation) error {
	if err := e.RequireOverallBudget(s); err != nil {
		return err
	}
	main, ok := s.MainRow(a.Category)
	if !ok {
		return apperrors.WithDetails(apperrors.ErrPrecondition,
			fmt.Sprintf("Please create the %s budget for %s before adding sub-categories.", a.Category, s.Month),
			map[string]any{"month": s.Month, "category": a.Category, "missing": "main_category_budget"})
	}
	return e.CheckSubcategoryContainment(s.Month, a.Category, s.SubSum(a.Category).Add(a.Amount), main.Amount)
}

// ValidateMainRemoval fails when a main row about to disappear from its
// (month, category) still has sub-rows.
func (e *Engine) ValidateMainRemoval(s *Snapshot, category string) error {
	subs := s.SubRows(category)
	if len(subs) == 0 {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrConstraintViolation,
		fmt.Sprintf("The %s budget for %s still has %d sub-category budget(s); remove them first.", category, s.Month, len(subs)),
		map[string]any{
			"rule":      "containment",
			"month":     s.Month,
			"category":  category,
			"sub_count": len(subs),
			"sub_sum":   s.SubSum(category).String(),
		})
}
