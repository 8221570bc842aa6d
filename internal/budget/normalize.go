package budget

import "strings"

// Canonical main category names.
const (
	CategoryCOGS             = "COGS"
	CategoryOperatingExpense = "Operating expense"
	CategoryPayroll          = "Payroll"
)

// synonyms maps a lower-cased, whitespace-collapsed category spelling to its
// canonical name.
var synonyms = map[string]string{
	"cogs":               CategoryCOGS,
	"cost of goods sold": CategoryCOGS,
	"operating expense":  CategoryOperatingExpense,
	"operating expenses": CategoryOperatingExpense,
	"operating":          CategoryOperatingExpense,
	"opex":               CategoryOperatingExpense,
	"payroll":            CategoryPayroll,
	"wages":              CategoryPayroll,
	"labor":              CategoryPayroll,
	"labour":             CategoryPayroll,
}

// NormalizeCategory canonicalizes a free-text category name. Unknown names are
// trimmed and returned unchanged. NormalizeCategory is idempotent.
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	key := strings.ToLower(strings.Join(strings.Fields(trimmed), " "))
	if canonical, ok := synonyms[key]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeSubcategory trims a subcategory name. An empty result marks a main row.
func NormalizeSubcategory(raw string) string {
	return strings.TrimSpace(raw)
}

// IsMainCategory reports whether the normalized name is one of the three main
// categories.
func IsMainCategory(category string) bool {
	switch category {
	case CategoryCOGS, CategoryOperatingExpense, CategoryPayroll:
		return true
	}
	return false
}

// MainCategories lists the canonical main categories in display order.
func MainCategories() []string {
	return []string{CategoryCOGS, CategoryOperatingExpense, CategoryPayroll}
}
