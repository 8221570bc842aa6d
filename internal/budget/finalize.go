package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "cafebudget/internal/errors"
)

// Operation tags how a finalize write reached the store.
type Operation string

const (
	OpInserted  Operation = "inserted"
	OpUpdated   Operation = "updated"
	OpUnchanged Operation = "unchanged"
)

// PendingAllocation is an unsaved amount to fold into a finalize run, e.g. the
// category budget that was just rejected for overrunning the month.
type PendingAllocation struct {
	Category string
	Amount   decimal.Decimal
}

// RowChange describes one category row written by finalize. ID is empty for
// rows still to be inserted.
type RowChange struct {
	ID          string
	Category    string
	Subcategory string
	Old         decimal.Decimal
	New         decimal.Decimal
	Op          Operation
}

// PayrollChange describes the payroll budget write. Op is empty when there is
// no payroll row and nothing to insert.
type PayrollChange struct {
	ID     string
	Before decimal.Decimal
	After  decimal.Decimal
	Op     Operation
}

// FinalizePlan is the full set of writes that brings a month back under its
// overall budget.
type FinalizePlan struct {
	Month   string
	Factor  decimal.Decimal
	Updates []RowChange
	Payroll PayrollChange
	Warning string
}

// Writes returns the row changes that must be persisted.
func (p *FinalizePlan) Writes() []RowChange {
	var out []RowChange
	for _, u := range p.Updates {
		if u.Op != OpUnchanged {
			out = append(out, u)
		}
	}
	return out
}

// PlanFinalize computes the proportional scaling for the month in s. Payroll is
// raised to its floor but never scaled down; COGS and Operating expense share
// what is left of the overall budget. Every sub-row of the month, Payroll's
// included, is scaled by the same factor and kept within its main amount.
func (e *Engine) PlanFinalize(s *Snapshot, pending *PendingAllocation) (*FinalizePlan, error) {
	if err := e.RequireOverallBudget(s); err != nil {
		return nil, err
	}
	overall := *s.Overall

	cogsRow, hasCOGS := s.MainRow(CategoryCOGS)
	opexRow, hasOpex := s.MainRow(CategoryOperatingExpense)
	cogs, opex, payroll := cogsRow.Amount, opexRow.Amount, s.PayrollAmount()
	if !hasCOGS {
		cogs = decimal.Zero
	}
	if !hasOpex {
		opex = decimal.Zero
	}

	if pending != nil {
		category := NormalizeCategory(pending.Category)
		if pending.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pending amount must not be negative")
		}
		switch category {
		case CategoryCOGS:
			cogs = cogs.Add(pending.Amount)
		case CategoryOperatingExpense:
			opex = opex.Add(pending.Amount)
		case CategoryPayroll:
			payroll = payroll.Add(pending.Amount)
		default:
			return nil, apperrors.WithDetails(apperrors.ErrInvalidInput,
				fmt.Sprintf("pending category %q is not a main category", pending.Category),
				map[string]any{"category": pending.Category})
		}
	}

	if Sum(cogs, opex, payroll).IsZero() {
		return nil, apperrors.WithDetails(apperrors.ErrNothingToScale,
			fmt.Sprintf("There are no main category allocations to scale for %s.", s.Month),
			map[string]any{"month": s.Month})
	}

	payrollTarget := decimal.Max(payroll, s.PayrollBase)
	remaining := overall.Sub(payrollTarget)
	plan := &FinalizePlan{Month: s.Month}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	base := cogs.Add(opex)
	scale := func(amount decimal.Decimal) decimal.Decimal {
		if base.IsZero() {
			return amount
		}
		return floorCents(amount.Mul(remaining).Div(base))
	}

	var newCOGS, newOpex decimal.Decimal
	if cogs.IsPositive() && opex.IsPositive() {
		newCOGS, newOpex = scale(cogs), scale(opex)
	} else {
		half := floorCents(remaining.Div(decimal.NewFromInt(2)))
		newCOGS, newOpex = half, half
	}
	// An exact fill still breaches a strict ceiling; give back one cent.
	if remaining.IsPositive() && e.policy.Breaches(Sum(newCOGS, newOpex, payrollTarget), overall) {
		if newCOGS.GreaterThanOrEqual(newOpex) {
			newCOGS = newCOGS.Sub(MinNonzeroAllocation)
		} else {
			newOpex = newOpex.Sub(MinNonzeroAllocation)
		}
	}
	newCOGS = decimal.Max(newCOGS, MinNonzeroAllocation)
	newOpex = decimal.Max(newOpex, MinNonzeroAllocation)

	plan.Factor = decimal.NewFromInt(1)
	if base.IsPositive() {
		plan.Factor = remaining.Div(base)
	}

	plan.Updates = append(plan.Updates,
		mainChange(CategoryCOGS, cogsRow, hasCOGS, newCOGS),
		mainChange(CategoryOperatingExpense, opexRow, hasOpex, newOpex),
	)
	plan.Updates = append(plan.Updates, scaleSubRows(s.SubRows(CategoryCOGS), newCOGS, scale)...)
	plan.Updates = append(plan.Updates, scaleSubRows(s.SubRows(CategoryOperatingExpense), newOpex, scale)...)
	plan.Updates = append(plan.Updates, scaleSubRows(s.SubRows(CategoryPayroll), payrollTarget, scale)...)

	// Clamping to MinNonzeroAllocation can push the month over its ceiling
	// when payroll alone fills it; the plan is still returned but flagged.
	if total := Sum(newCOGS, newOpex, payrollTarget); e.policy.Breaches(total, overall) {
		plan.Warning = fmt.Sprintf(
			"Payroll of %s leaves no room in the overall budget of %s for %s; COGS and Operating expense were kept at %s each, so the month totals %s. Raise the overall budget.",
			FormatAmount(payrollTarget), FormatAmount(overall), s.Month, FormatAmount(MinNonzeroAllocation), FormatAmount(total))
		if over := overContained(plan.Updates, newCOGS, newOpex, payrollTarget); len(over) > 0 {
			plan.Warning += fmt.Sprintf(" Sub-category budgets of %s were kept at %s and exceed their main budget.",
				strings.Join(over, " and "), FormatAmount(MinNonzeroAllocation))
		}
	}

	plan.Payroll = PayrollChange{Before: s.PayrollAmount(), After: payrollTarget}
	switch {
	case s.Payroll != nil && s.Payroll.Amount.Equal(payrollTarget):
		plan.Payroll.ID, plan.Payroll.Op = s.Payroll.ID, OpUnchanged
	case s.Payroll != nil:
		plan.Payroll.ID, plan.Payroll.Op = s.Payroll.ID, OpUpdated
	case payrollTarget.IsPositive():
		plan.Payroll.Op = OpInserted
	}

	return plan, nil
}

// overContained lists the categories whose planned sub-rows total more than
// their planned main amount.
func overContained(updates []RowChange, cogs, opex, payroll decimal.Decimal) []string {
	mains := map[string]decimal.Decimal{
		CategoryCOGS:             cogs,
		CategoryOperatingExpense: opex,
		CategoryPayroll:          payroll,
	}
	subSums := map[string]decimal.Decimal{}
	for _, u := range updates {
		if u.Subcategory != "" {
			subSums[u.Category] = subSums[u.Category].Add(u.New)
		}
	}
	var out []string
	for _, category := range []string{CategoryCOGS, CategoryOperatingExpense, CategoryPayroll} {
		if subSums[category].GreaterThan(mains[category]) {
			out = append(out, category)
		}
	}
	return out
}

func mainChange(category string, row Allocation, exists bool, amount decimal.Decimal) RowChange {
	if !exists {
		return RowChange{Category: category, Old: decimal.Zero, New: amount, Op: OpInserted}
	}
	op := OpUpdated
	if row.Amount.Equal(amount) {
		op = OpUnchanged
	}
	return RowChange{ID: row.ID, Category: category, Old: row.Amount, New: amount, Op: op}
}

// scaleSubRows applies scale to every sub-row, keeps previously positive rows
// at MinNonzeroAllocation or more, and squeezes the category again if its
// sub-rows would still exceed the new main amount.
func scaleSubRows(subs []Allocation, main decimal.Decimal, scale func(decimal.Decimal) decimal.Decimal) []RowChange {
	if len(subs) == 0 {
		return nil
	}
	amounts := make([]decimal.Decimal, len(subs))
	total := decimal.Zero
	for i, sub := range subs {
		amounts[i] = clampPositive(sub.Amount, scale(sub.Amount))
		total = total.Add(amounts[i])
	}
	if total.GreaterThan(main) {
		for i, sub := range subs {
			amounts[i] = clampPositive(sub.Amount, floorCents(amounts[i].Mul(main).Div(total)))
		}
	}

	out := make([]RowChange, len(subs))
	for i, sub := range subs {
		op := OpUpdated
		if sub.Amount.Equal(amounts[i]) {
			op = OpUnchanged
		}
		out[i] = RowChange{
			ID:          sub.ID,
			Category:    sub.Category,
			Subcategory: sub.Subcategory,
			Old:         sub.Amount,
			New:         amounts[i],
			Op:          op,
		}
	}
	return out
}

func clampPositive(old, scaled decimal.Decimal) decimal.Decimal {
	if old.IsPositive() {
		return decimal.Max(scaled, MinNonzeroAllocation)
	}
	return scaled
}
