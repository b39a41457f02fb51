package finance

import "dapurbooks/backend/internal/domain"

// Summarize rolls a year's line items up into the derived financial
// summary. It is a pure function: no retained state between calls, a
// full recompute every time, so re-running it on the same input is
// bit-identical and edits can never accumulate drift.
//
// Every summary row's total is the sum of its own twelve months, with
// one deliberate exception: the annual margin columns are annual profit
// over annual sales, not the mean of the monthly margins. The two
// diverge whenever monthly sales are uneven.
func Summarize(year int, items []domain.FinancialLineItem) domain.FinancialSummary {
	byCategory := map[string][]float64{
		domain.LineCategorySales:         make([]float64, domain.MonthsPerYear),
		domain.LineCategoryCostOfGoods:   make([]float64, domain.MonthsPerYear),
		domain.LineCategoryOperational:   make([]float64, domain.MonthsPerYear),
		domain.LineCategoryPayroll:       make([]float64, domain.MonthsPerYear),
		domain.LineCategoryUtilities:     make([]float64, domain.MonthsPerYear),
		domain.LineCategoryOtherExpenses: make([]float64, domain.MonthsPerYear),
	}

	for _, item := range items {
		months, ok := byCategory[item.Category]
		if !ok {
			continue
		}
		for m, v := range NormalizeMonths(item.Months) {
			months[m] += v
		}
	}

	sales := byCategory[domain.LineCategorySales]
	costOfGoods := byCategory[domain.LineCategoryCostOfGoods]
	operational := byCategory[domain.LineCategoryOperational]
	payroll := byCategory[domain.LineCategoryPayroll]
	utilities := byCategory[domain.LineCategoryUtilities]
	other := byCategory[domain.LineCategoryOtherExpenses]

	expenses := make([]float64, domain.MonthsPerYear)
	grossProfit := make([]float64, domain.MonthsPerYear)
	grossMargin := make([]float64, domain.MonthsPerYear)
	netProfit := make([]float64, domain.MonthsPerYear)
	netMargin := make([]float64, domain.MonthsPerYear)

	for m := 0; m < domain.MonthsPerYear; m++ {
		expenses[m] = costOfGoods[m] + operational[m] + payroll[m] + utilities[m] + other[m]
		grossProfit[m] = sales[m] - costOfGoods[m]
		netProfit[m] = grossProfit[m] - operational[m] - payroll[m] - utilities[m] - other[m]
		if sales[m] > 0 {
			grossMargin[m] = grossProfit[m] / sales[m] * 100
			netMargin[m] = netProfit[m] / sales[m] * 100
		}
	}

	summary := domain.FinancialSummary{
		Year:               year,
		TotalSales:         sumRow(sales),
		TotalCostOfGoods:   sumRow(costOfGoods),
		TotalOperational:   sumRow(operational),
		TotalPayroll:       sumRow(payroll),
		TotalUtilities:     sumRow(utilities),
		TotalOtherExpenses: sumRow(other),
		TotalExpenses:      sumRow(expenses),
		GrossProfit:        sumRow(grossProfit),
		NetProfit:          sumRow(netProfit),
	}

	summary.GrossProfitMargin = marginRow(grossMargin, summary.GrossProfit.Total, summary.TotalSales.Total)
	summary.NetProfitMargin = marginRow(netMargin, summary.NetProfit.Total, summary.TotalSales.Total)

	return summary
}

func sumRow(months []float64) domain.SummaryRow {
	total := 0.0
	for _, v := range months {
		total += v
	}
	return domain.SummaryRow{Months: months, Total: total}
}

// marginRow keeps the per-month margins but derives the annual column
// from annual profit over annual sales.
func marginRow(months []float64, annualProfit float64, annualSales float64) domain.SummaryRow {
	row := domain.SummaryRow{Months: months}
	if annualSales > 0 {
		row.Total = annualProfit / annualSales * 100
	}
	return row
}
