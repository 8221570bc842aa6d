package budget

import "github.com/shopspring/decimal"

// Allocation is one budget row as seen by the engine: a main row when
// Subcategory is empty, otherwise a sub-row under Category.
type Allocation struct {
	ID          string
	Category    string
	Subcategory string
	Amount      decimal.Decimal
}

// IsMain reports whether the allocation is a main-category row.
func (a Allocation) IsMain() bool { return a.Subcategory == "" }

// Snapshot is a consistent read of one month of the budget store. The engine
// only reads snapshots; services load them inside the write transaction.
type Snapshot struct {
	Month       string
	Overall     *decimal.Decimal
	Categories  []Allocation
	Payroll     *Allocation
	PayrollBase decimal.Decimal
}

// OverallAndMainSum returns the overall amount (nil when absent) and the sum
// of all main category rows plus the payroll budget.
func (s *Snapshot) OverallAndMainSum() (*decimal.Decimal, decimal.Decimal) {
	return s.Overall, s.MainSum()
}

// MainSum is the sum of main-row amounts plus the payroll budget.
func (s *Snapshot) MainSum() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Categories {
		if a.IsMain() {
			total = total.Add(a.Amount)
		}
	}
	return total.Add(s.PayrollAmount())
}

// PayrollAmount returns the payroll budget amount, zero when none exists.
func (s *Snapshot) PayrollAmount() decimal.Decimal {
	if s.Payroll == nil {
		return decimal.Zero
	}
	return s.Payroll.Amount
}

// MainCategoryBreakdown returns main-row totals per category and the payroll total.
func (s *Snapshot) MainCategoryBreakdown() (map[string]decimal.Decimal, decimal.Decimal) {
	out := make(map[string]decimal.Decimal)
	for _, a := range s.Categories {
		if a.IsMain() {
			out[a.Category] = out[a.Category].Add(a.Amount)
		}
	}
	return out, s.PayrollAmount()
}

// Totals returns the reservation-rule view of the month.
func (s *Snapshot) Totals() Totals {
	breakdown, payroll := s.MainCategoryBreakdown()
	return Totals{
		COGS:             breakdown[CategoryCOGS],
		OperatingExpense: breakdown[CategoryOperatingExpense],
		Payroll:          payroll,
	}
}

// MainRow finds the main row for category. For Payroll the payroll budget is
// the main row.
func (s *Snapshot) MainRow(category string) (Allocation, bool) {
	if category == CategoryPayroll {
		if s.Payroll == nil {
			return Allocation{}, false
		}
		return *s.Payroll, true
	}
	for _, a := range s.Categories {
		if a.IsMain() && a.Category == category {
			return a, true
		}
	}
	return Allocation{}, false
}

// SubRows returns the sub-rows of category.
func (s *Snapshot) SubRows(category string) []Allocation {
	var out []Allocation
	for _, a := range s.Categories {
		if !a.IsMain() && a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// SubSum sums the sub-rows of category.
func (s *Snapshot) SubSum(category string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.SubRows(category) {
		total = total.Add(a.Amount)
	}
	return total
}

// Find returns the category row with the given key.
func (s *Snapshot) Find(category, subcategory string) (Allocation, bool) {
	for _, a := range s.Categories {
		if a.Category == category && a.Subcategory == subcategory {
			return a, true
		}
	}
	return Allocation{}, false
}

// Without returns a copy of the snapshot that excludes the row with id, so an
// update can be validated against its siblings only.
func (s *Snapshot) Without(id string) *Snapshot {
	cp := *s
	cp.Categories = make([]Allocation, 0, len(s.Categories))
	for _, a := range s.Categories {
		if a.ID != id {
			cp.Categories = append(cp.Categories, a)
		}
	}
	if s.Payroll != nil && s.Payroll.ID == id {
		cp.Payroll = nil
	}
	return &cp
}

// Totals are the amounts of the three main categories for a month.
type Totals struct {
	COGS             decimal.Decimal
	OperatingExpense decimal.Decimal
	Payroll          decimal.Decimal
}

// With returns totals with category replaced by amount.
func (t Totals) With(category string, amount decimal.Decimal) Totals {
	switch category {
	case CategoryCOGS:
		t.COGS = amount
	case CategoryOperatingExpense:
		t.OperatingExpense = amount
	case CategoryPayroll:
		t.Payroll = amount
	}
	return t
}

// Sum returns the combined total.
func (t Totals) Sum() decimal.Decimal {
	return Sum(t.COGS, t.OperatingExpense, t.Payroll)
}

// active returns the non-zero categories in a fixed order.
func (t Totals) active() []string {
	var out []string
	if !t.COGS.IsZero() {
		out = append(out, CategoryCOGS)
	}
	if !t.OperatingExpense.IsZero() {
		out = append(out, CategoryOperatingExpense)
	}
	if !t.Payroll.IsZero() {
		out = append(out, CategoryPayroll)
	}
	return out
}
