package finance

import (
	"time"

	"dapurbooks/backend/internal/domain"
)

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildDailyRecord folds one day's raw sales, expense and payroll
// entries into a daily economy record. Entries outside the record date
// are ignored, so callers can pass unfiltered day batches. Persistence
// and the duplicate-date guard belong to the caller.
func BuildDailyRecord(date time.Time, sales []domain.SaleEntry, expenses []domain.ExpenseEntry, payroll []domain.PayrollEntry) domain.DailyEconomyRecord {
	day := DateOnly(date)

	record := domain.DailyEconomyRecord{
		RecordDate:          day,
		OperatingByCategory: map[string]float64{},
		PayrollByRole:       map[string]float64{},
	}

	for _, sale := range sales {
		if !DateOnly(sale.SoldAt).Equal(day) {
			continue
		}
		record.TotalIncome += sale.Amount
	}

	for _, expense := range expenses {
		if !DateOnly(expense.SpentAt).Equal(day) {
			continue
		}
		record.OperatingByCategory[expense.Category] += expense.Amount
		record.OperatingExpenses += expense.Amount
	}

	for _, entry := range payroll {
		if !DateOnly(entry.PaidAt).Equal(day) {
			continue
		}
		record.PayrollByRole[entry.Role] += entry.Amount
		record.PayrollExpenses += entry.Amount
	}

	record.GrossProfit = record.TotalIncome - record.OperatingExpenses - record.PayrollExpenses
	return record
}

// SummarizeMonth sums the daily records falling inside the given month.
// Records outside the month are skipped so callers can pass wider
// ranges.
func SummarizeMonth(year int, month time.Month, records []domain.DailyEconomyRecord) domain.MonthlyEconomySummary {
	summary := domain.MonthlyEconomySummary{Year: year, Month: int(month)}

	for _, record := range records {
		day := DateOnly(record.RecordDate)
		if day.Year() != year || day.Month() != month {
			continue
		}
		summary.Days++
		summary.TotalIncome += record.TotalIncome
		summary.GrossProfit += record.GrossProfit
		summary.PayrollExpenses += record.PayrollExpenses
		summary.OperatingExpenses += record.OperatingExpenses
	}

	return summary
}
