package finance

import "dapurbooks/backend/internal/domain"

// NormalizeMonths returns a copy of months padded or truncated to twelve
// entries, January first.
func NormalizeMonths(months []float64) []float64 {
	normalized := make([]float64, domain.MonthsPerYear)
	copy(normalized, months)
	return normalized
}

// RecomputeLineItem re-derives a line item's total from its months. It
// must run on every months mutation before the item is persisted or fed
// to the rollup; no code path may store a months edit without it.
func RecomputeLineItem(item domain.FinancialLineItem) domain.FinancialLineItem {
	item.Months = NormalizeMonths(item.Months)

	total := 0.0
	for _, v := range item.Months {
		total += v
	}
	item.Total = total
	return item
}

// ValidLineCategory reports whether category is one of the six line item
// families.
func ValidLineCategory(category string) bool {
	switch category {
	case domain.LineCategorySales,
		domain.LineCategoryCostOfGoods,
		domain.LineCategoryOperational,
		domain.LineCategoryPayroll,
		domain.LineCategoryUtilities,
		domain.LineCategoryOtherExpenses:
		return true
	}
	return false
}
