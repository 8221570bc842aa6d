package budget

import "testing"

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Month:   "2025-06",
		Overall: ptr(dec("1000")),
		Categories: []Allocation{
			mainRow("c1", CategoryCOGS, "400"),
			subRow("s1", CategoryCOGS, "Beans", "250"),
			subRow("s2", CategoryCOGS, "Milk", "100"),
			mainRow("c2", CategoryOperatingExpense, "200"),
			subRow("s3", CategoryPayroll, "Baristas", "120"),
		},
		Payroll: &Allocation{ID: "p1", Category: CategoryPayroll, Amount: dec("150")},
	}
}

func TestOverallAndMainSum(t *testing.T) {
	s := sampleSnapshot()
	overall, mainSum := s.OverallAndMainSum()
	if overall == nil || !overall.Equal(dec("1000")) {
		t.Fatalf("expected overall 1000, got %v", overall)
	}
	// Sub-rows never count towards the main sum.
	if !mainSum.Equal(dec("750")) {
		t.Errorf("expected main sum 750, got %s", mainSum)
	}

	overall, mainSum = (&Snapshot{Month: "2025-06"}).OverallAndMainSum()
	if overall != nil || !mainSum.IsZero() {
		t.Errorf("expected nil overall and zero sum for an empty month, got %v and %s", overall, mainSum)
	}
}

func TestMainCategoryBreakdown(t *testing.T) {
	breakdown, payroll := sampleSnapshot().MainCategoryBreakdown()
	if !breakdown[CategoryCOGS].Equal(dec("400")) || !breakdown[CategoryOperatingExpense].Equal(dec("200")) {
		t.Errorf("unexpected breakdown %v", breakdown)
	}
	if _, ok := breakdown[CategoryPayroll]; ok {
		t.Error("payroll sub-rows must not appear as a main category")
	}
	if !payroll.Equal(dec("150")) {
		t.Errorf("expected payroll 150, got %s", payroll)
	}
}

func TestSnapshotRows(t *testing.T) {
	s := sampleSnapshot()

	t.Run("main_row_for_payroll_is_payroll_budget", func(t *testing.T) {
		row, ok := s.MainRow(CategoryPayroll)
		if !ok || row.ID != "p1" {
			t.Errorf("expected payroll budget p1, got %+v (%v)", row, ok)
		}
		if got := s.SubSum(CategoryPayroll); !got.Equal(dec("120")) {
			t.Errorf("expected payroll sub-sum 120, got %s", got)
		}
	})

	t.Run("sub_rows", func(t *testing.T) {
		if n := len(s.SubRows(CategoryCOGS)); n != 2 {
			t.Errorf("expected 2 COGS sub-rows, got %d", n)
		}
		if got := s.SubSum(CategoryCOGS); !got.Equal(dec("350")) {
			t.Errorf("expected COGS sub-sum 350, got %s", got)
		}
		if _, ok := s.Find(CategoryCOGS, "Milk"); !ok {
			t.Error("expected to find COGS / Milk")
		}
	})

	t.Run("without_excludes_row", func(t *testing.T) {
		w := s.Without("c1")
		if _, ok := w.MainRow(CategoryCOGS); ok {
			t.Error("expected COGS main row to be excluded")
		}
		if len(s.Categories) != 5 {
			t.Error("Without must not modify the original snapshot")
		}
		if w := s.Without("p1"); w.Payroll != nil {
			t.Error("expected payroll budget to be excluded")
		}
	})

	t.Run("totals", func(t *testing.T) {
		totals := s.Totals().With(CategoryOperatingExpense, dec("0"))
		if active := totals.active(); len(active) != 2 || active[0] != CategoryCOGS || active[1] != CategoryPayroll {
			t.Errorf("expected COGS and Payroll active, got %v", active)
		}
		if !totals.Sum().Equal(dec("550")) {
			t.Errorf("expected total 550, got %s", totals.Sum())
		}
	})
}
