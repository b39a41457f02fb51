package costing

import (
	"math"
	"testing"

	"dapurbooks/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func testTable() ConversionTable {
	return NewConversionTable([]domain.Unit{
		{ID: "unit-l", Name: "Liter", ConversionFactor: floatPtr(1000)},
		{ID: "unit-ml", Name: "Mililiter", ConversionFactor: floatPtr(1)},
		{ID: "unit-kg", Name: "Kilogram", ConversionFactor: floatPtr(1000)},
		{ID: "unit-g", Name: "Gram", ConversionFactor: floatPtr(1)},
		{ID: "unit-pcs", Name: "Pcs"},
	})
}

func TestConversionTableSkipsFactorlessUnits(t *testing.T) {
	table := testTable()
	if _, ok := table.FactorOf("unit-pcs"); ok {
		t.Fatalf("expected no factor for piece unit")
	}
	factor, ok := table.FactorOf("unit-l")
	if !ok || factor != 1000 {
		t.Fatalf("expected liter factor 1000, got %v ok=%t", factor, ok)
	}
}

func TestPackagedModeOverridesUnits(t *testing.T) {
	product := domain.Product{
		ID:               "prod-egg",
		PurchasePrice:    12,
		Amount:           1,
		UnitID:           "unit-pcs",
		PiecesPerPackage: floatPtr(6),
	}
	// Declared units differ on purpose: packaged pricing ignores them.
	ing := domain.RecipeIngredient{ProductID: "prod-egg", Amount: 2, UnitID: strPtr("unit-g")}

	got := ResolveIngredientCost(ing, product, testTable())
	if got.Mode != ModePackaged {
		t.Fatalf("expected packaged mode, got %s", got.Mode)
	}
	if got.Cost != 4.00 {
		t.Fatalf("expected cost 4.00, got %v", got.Cost)
	}
	if got.Approximate {
		t.Fatalf("packaged cost should not be approximate")
	}
}

func TestDirectUnitMatch(t *testing.T) {
	product := domain.Product{ID: "prod-flour", PurchasePrice: 10, Amount: 5, UnitID: "unit-kg"}
	ing := domain.RecipeIngredient{ProductID: "prod-flour", Amount: 2, UnitID: strPtr("unit-kg")}

	got := ResolveIngredientCost(ing, product, testTable())
	if got.Mode != ModeDirectUnit {
		t.Fatalf("expected direct unit mode, got %s", got.Mode)
	}
	if got.Cost != 4.00 {
		t.Fatalf("expected cost 4.00, got %v", got.Cost)
	}
}

func TestDirectUnitAppliesWhenIngredientUnitAbsent(t *testing.T) {
	product := domain.Product{ID: "prod-flour", PurchasePrice: 10, Amount: 5, UnitID: "unit-kg"}
	ing := domain.RecipeIngredient{ProductID: "prod-flour", Amount: 2}

	got := ResolveIngredientCost(ing, product, testTable())
	if got.Mode != ModeDirectUnit || got.Cost != 4.00 {
		t.Fatalf("expected direct 4.00, got %s %v", got.Mode, got.Cost)
	}
}

func TestCrossUnitConversion(t *testing.T) {
	// 0.5 liters against a product stocked in milliliters: factor
	// 1000/1 converts 0.5 to 500, then (500/5)*10 = 1000.00.
	product := domain.Product{ID: "prod-syrup", PurchasePrice: 10, Amount: 5, UnitID: "unit-ml"}
	ing := domain.RecipeIngredient{ProductID: "prod-syrup", Amount: 0.5, UnitID: strPtr("unit-l")}

	got := ResolveIngredientCost(ing, product, testTable())
	if got.Mode != ModeConverted {
		t.Fatalf("expected converted mode, got %s", got.Mode)
	}
	if got.Cost != 1000.00 {
		t.Fatalf("expected cost 1000.00, got %v", got.Cost)
	}
	if got.Approximate {
		t.Fatalf("converted cost should not be approximate")
	}
}

func TestFallbackIsApproximate(t *testing.T) {
	// Piece unit has no conversion factor, so the raw-amount proportion
	// applies and the result is flagged low-confidence.
	product := domain.Product{ID: "prod-lime", PurchasePrice: 10, Amount: 5, UnitID: "unit-pcs"}
	ing := domain.RecipeIngredient{ProductID: "prod-lime", Amount: 2, UnitID: strPtr("unit-g")}

	got := ResolveIngredientCost(ing, product, testTable())
	if got.Mode != ModeFallback {
		t.Fatalf("expected fallback mode, got %s", got.Mode)
	}
	if got.Cost != 4.00 {
		t.Fatalf("expected cost 4.00, got %v", got.Cost)
	}
	if !got.Approximate {
		t.Fatalf("fallback cost must be approximate")
	}
}

func TestZeroProductAmountDefaultsToOne(t *testing.T) {
	product := domain.Product{ID: "prod-salt", PurchasePrice: 3, Amount: 0, UnitID: "unit-g"}
	ing := domain.RecipeIngredient{ProductID: "prod-salt", Amount: 2, UnitID: strPtr("unit-g")}

	got := ResolveIngredientCost(ing, product, testTable())
	if got.Cost != 6.00 {
		t.Fatalf("expected amount treated as 1 giving 6.00, got %v", got.Cost)
	}
	if !got.Approximate {
		t.Fatalf("defensive amount default must be flagged approximate")
	}
}

func TestMissingPricingYieldsZeroCost(t *testing.T) {
	table := testTable()

	unpriced := domain.Product{ID: "prod-x", PurchasePrice: 0, Amount: 5, UnitID: "unit-g"}
	got := ResolveIngredientCost(domain.RecipeIngredient{ProductID: "prod-x", Amount: 2}, unpriced, table)
	if got.Cost != 0 {
		t.Fatalf("expected 0 cost for unpriced stock, got %v", got.Cost)
	}

	negative := domain.Product{ID: "prod-y", PurchasePrice: 10, Amount: 5, UnitID: "unit-g"}
	got = ResolveIngredientCost(domain.RecipeIngredient{ProductID: "prod-y", Amount: -1}, negative, table)
	if got.Cost != 0 {
		t.Fatalf("expected 0 cost for negative amount, got %v", got.Cost)
	}
}

func TestAggregateRecipeCost(t *testing.T) {
	products := map[string]domain.Product{
		"prod-egg":   {ID: "prod-egg", PurchasePrice: 12, Amount: 1, UnitID: "unit-pcs", PiecesPerPackage: floatPtr(6)},
		"prod-flour": {ID: "prod-flour", PurchasePrice: 10, Amount: 5, UnitID: "unit-kg"},
	}
	recipe := domain.Recipe{
		ID:        "rcp-1",
		Name:      "Pancake",
		SalePrice: 25,
		Ingredients: []domain.RecipeIngredient{
			{ProductID: "prod-egg", Amount: 2},
			{ProductID: "prod-flour", Amount: 2, UnitID: strPtr("unit-kg")},
		},
	}

	got := AggregateRecipeCost(recipe, products, testTable())
	if got.TotalCost != 8.00 {
		t.Fatalf("expected total 8.00, got %v", got.TotalCost)
	}
	if got.Profit != 17.00 {
		t.Fatalf("expected profit 17.00, got %v", got.Profit)
	}
	if got.MarginPct != 68.00 {
		t.Fatalf("expected margin 68.00, got %v", got.MarginPct)
	}
	if len(got.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredient rows, got %d", len(got.Ingredients))
	}
}

func TestAggregateEmptyRecipe(t *testing.T) {
	got := AggregateRecipeCost(domain.Recipe{ID: "rcp-empty", SalePrice: 10}, nil, testTable())
	if got.TotalCost != 0 {
		t.Fatalf("expected empty recipe to cost 0, got %v", got.TotalCost)
	}
	if got.Profit != 10 || got.MarginPct != 100 {
		t.Fatalf("expected profit 10 margin 100, got %v %v", got.Profit, got.MarginPct)
	}
}

func TestZeroSalePriceYieldsZeroMargin(t *testing.T) {
	products := map[string]domain.Product{
		"prod-flour": {ID: "prod-flour", PurchasePrice: 10, Amount: 5, UnitID: "unit-kg"},
	}
	recipe := domain.Recipe{
		ID: "rcp-free",
		Ingredients: []domain.RecipeIngredient{
			{ProductID: "prod-flour", Amount: 2, UnitID: strPtr("unit-kg")},
		},
	}

	got := AggregateRecipeCost(recipe, products, testTable())
	if got.MarginPct != 0 {
		t.Fatalf("expected margin 0 at sale price 0, got %v", got.MarginPct)
	}
	if got.Profit != -4.00 {
		t.Fatalf("expected profit -4.00, got %v", got.Profit)
	}
}

func TestTotalRoundsOnceNotPerIngredient(t *testing.T) {
	// Three rows of 0.333... each: per-row rounding would give 0.99,
	// the single-rounding total gives 1.00.
	products := map[string]domain.Product{
		"prod-a": {ID: "prod-a", PurchasePrice: 1, Amount: 3, UnitID: "unit-g"},
	}
	recipe := domain.Recipe{
		ID:        "rcp-thirds",
		SalePrice: 2,
		Ingredients: []domain.RecipeIngredient{
			{ProductID: "prod-a", Amount: 1, UnitID: strPtr("unit-g")},
			{ProductID: "prod-a", Amount: 1, UnitID: strPtr("unit-g")},
			{ProductID: "prod-a", Amount: 1, UnitID: strPtr("unit-g")},
		},
	}

	got := AggregateRecipeCost(recipe, products, testTable())
	if got.TotalCost != 1.00 {
		t.Fatalf("expected full-precision accumulation total 1.00, got %v", got.TotalCost)
	}
	rowSum := 0.0
	for _, row := range got.Ingredients {
		rowSum += row.Cost
	}
	if math.Abs(rowSum-0.99) > 1e-9 {
		t.Fatalf("expected displayed rows to sum to 0.99, got %v", rowSum)
	}
}
