package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dapurbooks/backend/internal/cache"
	"dapurbooks/backend/internal/domain"
	"dapurbooks/backend/internal/store"
	"dapurbooks/backend/internal/store/memory"
)

func newTestService() *Service {
	return New(memory.NewSeeded(), cache.NoopSummaryCache{}, 5*time.Minute)
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func TestCreateUnitRequiresAdmin(t *testing.T) {
	svc := newTestService()
	staffCtx := WithActor(context.Background(), domain.Actor{Username: "staff", Role: "staff"})

	factor := 28.35
	_, err := svc.CreateUnit(staffCtx, domain.UnitCreateRequest{Name: "ounce", ConversionFactor: &factor})
	if err == nil {
		t.Fatalf("expected staff unit creation to be rejected")
	}

	created, err := svc.CreateUnit(adminCtx(), domain.UnitCreateRequest{Name: "ounce", ConversionFactor: &factor})
	if err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	if created.ID == "" || created.Name != "ounce" {
		t.Fatalf("unexpected created unit: %+v", created)
	}
}

func TestCreateUnitRejectsNonPositiveFactor(t *testing.T) {
	svc := newTestService()

	zero := 0.0
	_, err := svc.CreateUnit(adminCtx(), domain.UnitCreateRequest{Name: "broken", ConversionFactor: &zero})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDeleteUnitInUseConflicts(t *testing.T) {
	svc := newTestService()

	// unit-l backs the seeded milk product
	err := svc.DeleteUnit(adminCtx(), "unit-l")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict deleting a referenced unit, got %v", err)
	}
}

func TestRecipeCostForSeededRecipe(t *testing.T) {
	svc := newTestService()

	cost, err := svc.RecipeCost(context.Background(), "recipe-kopi-susu")
	if err != nil {
		t.Fatalf("recipe cost failed: %v", err)
	}
	// 120ml of 1L@18000 + 18g of 500g@45000 + 15g of 1kg@17000
	if cost.TotalCost != 4035 {
		t.Fatalf("expected total cost 4035, got %v", cost.TotalCost)
	}
	if cost.Profit != 17965 {
		t.Fatalf("expected profit 17965, got %v", cost.Profit)
	}
	if len(cost.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredient rows, got %d", len(cost.Ingredients))
	}
	for _, row := range cost.Ingredients {
		if row.Approximate {
			t.Fatalf("expected exact costing for %s", row.ProductID)
		}
	}
}

func TestRecipeCostMissingRecipe(t *testing.T) {
	svc := newTestService()

	_, err := svc.RecipeCost(context.Background(), "recipe-nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRecipeValidatesIngredients(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateRecipe(adminCtx(), domain.RecipeCreateRequest{
		Name:      "Teh Manis",
		SalePrice: 8000,
		Ingredients: []domain.RecipeIngredientInput{
			{ProductID: "prod-sugar", Amount: 0},
		},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero amount, got %v", err)
	}

	_, err = svc.CreateRecipe(adminCtx(), domain.RecipeCreateRequest{
		Name:      "Teh Manis",
		SalePrice: 8000,
		Ingredients: []domain.RecipeIngredientInput{
			{ProductID: "prod-ghost", Amount: 10},
		},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestDeleteRecipeRemovesIngredients(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	created, err := svc.CreateRecipe(ctx, domain.RecipeCreateRequest{
		Name:      "Teh Manis",
		SalePrice: 8000,
		Ingredients: []domain.RecipeIngredientInput{
			{ProductID: "prod-sugar", Amount: 20},
		},
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	if err := svc.DeleteRecipe(ctx, created.ID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}

	if _, err := svc.GetRecipe(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected deleted recipe to be gone, got %v", err)
	}
	if _, err := svc.RecipeCost(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected cost of deleted recipe to be not found, got %v", err)
	}

	// The seeded recipe still references sugar, so the product stays guarded.
	if err := svc.DeleteProduct(ctx, "prod-sugar"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict while seeded recipe references sugar, got %v", err)
	}
}

func TestLineItemLifecycleKeepsTotalDerived(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	created, err := svc.CreateLineItem(ctx, domain.LineItemCreateRequest{
		Year:     2025,
		Name:     "Food Sales",
		Category: domain.LineCategorySales,
		Months:   []float64{100, 200},
	})
	if err != nil {
		t.Fatalf("create line item failed: %v", err)
	}
	if created.Total != 300 {
		t.Fatalf("expected total 300, got %v", created.Total)
	}
	if len(created.Months) != domain.MonthsPerYear {
		t.Fatalf("expected normalized 12-month row, got %d", len(created.Months))
	}

	updated, err := svc.UpdateLineItem(ctx, created.ID, domain.LineItemUpdateRequest{
		SetMonth: &domain.MonthCellEdit{Month: 2, Value: 50},
	})
	if err != nil {
		t.Fatalf("update line item failed: %v", err)
	}
	if updated.Total != 350 {
		t.Fatalf("expected total 350 after cell edit, got %v", updated.Total)
	}

	_, err = svc.UpdateLineItem(ctx, created.ID, domain.LineItemUpdateRequest{
		SetMonth: &domain.MonthCellEdit{Month: 12, Value: 1},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for out-of-range month, got %v", err)
	}
}

func TestCreateLineItemRejectsUnknownCategory(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateLineItem(adminCtx(), domain.LineItemCreateRequest{
		Year:     2025,
		Name:     "Mystery",
		Category: "capital",
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestYearSummaryReflectsLineItemEdits(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	sales, err := svc.CreateLineItem(ctx, domain.LineItemCreateRequest{
		Year:     2025,
		Name:     "Bar Sales",
		Category: domain.LineCategorySales,
		Months:   []float64{1000},
	})
	if err != nil {
		t.Fatalf("create sales line failed: %v", err)
	}
	_, err = svc.CreateLineItem(ctx, domain.LineItemCreateRequest{
		Year:     2025,
		Name:     "Ingredients",
		Category: domain.LineCategoryCostOfGoods,
		Months:   []float64{400},
	})
	if err != nil {
		t.Fatalf("create cogs line failed: %v", err)
	}

	summary, err := svc.YearSummary(ctx, 2025)
	if err != nil {
		t.Fatalf("year summary failed: %v", err)
	}
	if summary.GrossProfit.Months[0] != 600 {
		t.Fatalf("expected january gross profit 600, got %v", summary.GrossProfit.Months[0])
	}

	if _, err := svc.UpdateLineItem(ctx, sales.ID, domain.LineItemUpdateRequest{
		SetMonth: &domain.MonthCellEdit{Month: 0, Value: 2000},
	}); err != nil {
		t.Fatalf("update sales line failed: %v", err)
	}

	summary, err = svc.YearSummary(ctx, 2025)
	if err != nil {
		t.Fatalf("year summary after edit failed: %v", err)
	}
	if summary.GrossProfit.Months[0] != 1600 {
		t.Fatalf("expected january gross profit 1600 after edit, got %v", summary.GrossProfit.Months[0])
	}
}

func TestGenerateDailyRecordAndDuplicateConflict(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	if _, err := svc.RecordSale(ctx, domain.SaleEntryCreateRequest{Source: "kitchen", Amount: 900, Date: "2025-06-14"}); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if _, err := svc.RecordSale(ctx, domain.SaleEntryCreateRequest{Source: "bar", Amount: 350, Date: "2025-06-14"}); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if _, err := svc.RecordExpense(ctx, domain.ExpenseEntryCreateRequest{Category: "produce", Amount: 300, Date: "2025-06-14"}); err != nil {
		t.Fatalf("record expense failed: %v", err)
	}
	if _, err := svc.RecordPayroll(ctx, domain.PayrollEntryCreateRequest{Role: "cook", Amount: 200, Date: "2025-06-14"}); err != nil {
		t.Fatalf("record payroll failed: %v", err)
	}

	record, err := svc.GenerateDailyRecord(ctx, domain.DailyRecordGenerateRequest{Date: "2025-06-14"})
	if err != nil {
		t.Fatalf("generate daily record failed: %v", err)
	}
	if record.TotalIncome != 1250 {
		t.Fatalf("expected income 1250, got %v", record.TotalIncome)
	}
	if record.GrossProfit != 750 {
		t.Fatalf("expected gross profit 750, got %v", record.GrossProfit)
	}

	_, err = svc.GenerateDailyRecord(ctx, domain.DailyRecordGenerateRequest{Date: "2025-06-14"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict on duplicate date, got %v", err)
	}
	var dup *store.DuplicateDateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDateError, got %T", err)
	}
	if dup.ExistingID != record.ID {
		t.Fatalf("expected existing id %s, got %s", record.ID, dup.ExistingID)
	}
}

func TestMonthlySummarySumsDailyRecords(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	for _, day := range []string{"2025-06-01", "2025-06-02"} {
		if _, err := svc.RecordSale(ctx, domain.SaleEntryCreateRequest{Source: "kitchen", Amount: 500, Date: day}); err != nil {
			t.Fatalf("record sale failed: %v", err)
		}
		if _, err := svc.GenerateDailyRecord(ctx, domain.DailyRecordGenerateRequest{Date: day}); err != nil {
			t.Fatalf("generate daily record failed: %v", err)
		}
	}

	summary, err := svc.MonthlySummary(ctx, 2025, 6)
	if err != nil {
		t.Fatalf("monthly summary failed: %v", err)
	}
	if summary.Days != 2 {
		t.Fatalf("expected 2 days, got %d", summary.Days)
	}
	if summary.TotalIncome != 1000 {
		t.Fatalf("expected income 1000, got %v", summary.TotalIncome)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.RecordSale(context.Background(), domain.SaleEntryCreateRequest{Source: "", Amount: 100})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty source, got %v", err)
	}
	_, err = svc.RecordSale(context.Background(), domain.SaleEntryCreateRequest{Source: "bar", Amount: 0})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero amount, got %v", err)
	}
	_, err = svc.RecordSale(context.Background(), domain.SaleEntryCreateRequest{Source: "bar", Amount: 10, Date: "14-06-2025"})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed date, got %v", err)
	}
}

func TestListAuditLogsRequiresAdmin(t *testing.T) {
	svc := newTestService()

	_, err := svc.ListAuditLogs(context.Background(), "", 10)
	if err == nil {
		t.Fatalf("expected audit log listing without admin actor to fail")
	}

	ctx := adminCtx()
	if _, err := svc.CreateCategory(ctx, domain.CategoryCreateRequest{Name: "desserts"}); err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	logs, err := svc.ListAuditLogs(ctx, "", 10)
	if err != nil {
		t.Fatalf("list audit logs failed: %v", err)
	}
	if len(logs) == 0 {
		t.Fatalf("expected at least one audit entry")
	}
	if logs[0].ActorUsername != "admin" {
		t.Fatalf("expected admin actor on audit entry, got %s", logs[0].ActorUsername)
	}
}
