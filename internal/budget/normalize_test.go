package budget

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"COGS", CategoryCOGS},
		{"  cogs ", CategoryCOGS},
		{"Cost of Goods Sold", CategoryCOGS},
		{"Operating Expense", CategoryOperatingExpense},
		{"operating   expenses", CategoryOperatingExpense},
		{"OPEX", CategoryOperatingExpense},
		{"operating", CategoryOperatingExpense},
		{"payroll", CategoryPayroll},
		{"Wages", CategoryPayroll},
		{" Marketing ", "Marketing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeCategory(tt.in); got != tt.want {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	inputs := []string{
		"COGS", "opex", " Operating  Expense ", "labour", "Rent", "  ", "\tpayroll\n",
		"cost of goods  sold", "Supplies & Packaging", "OPERATING",
	}
	for _, in := range inputs {
		once := NormalizeCategory(in)
		if twice := NormalizeCategory(once); twice != once {
			t.Errorf("NormalizeCategory not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeSubcategory(t *testing.T) {
	if got := NormalizeSubcategory("  Coffee beans "); got != "Coffee beans" {
		t.Errorf("expected trimmed subcategory, got %q", got)
	}
	if got := NormalizeSubcategory("   "); got != "" {
		t.Errorf("expected blank subcategory to mark a main row, got %q", got)
	}
}

func TestIsMainCategory(t *testing.T) {
	for _, c := range []string{CategoryCOGS, CategoryOperatingExpense, CategoryPayroll} {
		if !IsMainCategory(c) {
			t.Errorf("expected %q to be a main category", c)
		}
	}
	if IsMainCategory("Marketing") {
		t.Error("expected Marketing not to be a main category")
	}
	if IsMainCategory("cogs") {
		t.Error("IsMainCategory expects normalized input")
	}
}
