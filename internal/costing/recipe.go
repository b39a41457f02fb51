package costing

import "dapurbooks/backend/internal/domain"

// RecipeCost is the aggregated costing result for one recipe. TotalCost
// is accumulated in full precision and rounded once; it can therefore
// differ at the cent level from a naive sum of the per-ingredient rows,
// which are rounded individually for display.
type RecipeCost struct {
	RecipeID    string           `json:"recipe_id"`
	Name        string           `json:"name"`
	SalePrice   float64          `json:"sale_price"`
	Ingredients []IngredientCost `json:"ingredients"`
	TotalCost   float64          `json:"total_cost"`
	Profit      float64          `json:"profit"`
	MarginPct   float64          `json:"margin_pct"`
}

// AggregateRecipeCost resolves every ingredient of a recipe and derives
// total cost, profit against the sale price, and margin percentage.
// A recipe with zero ingredients costs 0; a sale price of 0 yields a
// margin of 0 rather than a division by zero.
func AggregateRecipeCost(recipe domain.Recipe, products map[string]domain.Product, table ConversionTable) RecipeCost {
	result := RecipeCost{
		RecipeID:    recipe.ID,
		Name:        recipe.Name,
		SalePrice:   recipe.SalePrice,
		Ingredients: make([]IngredientCost, 0, len(recipe.Ingredients)),
	}

	total := 0.0
	for _, ing := range recipe.Ingredients {
		raw := resolveRaw(ing, products[ing.ProductID], table)
		total += raw.Cost

		raw.Cost = Round2(raw.Cost)
		result.Ingredients = append(result.Ingredients, raw)
	}

	result.TotalCost = Round2(total)
	result.Profit = Round2(recipe.SalePrice - total)
	if recipe.SalePrice > 0 {
		result.MarginPct = Round2((recipe.SalePrice - total) / recipe.SalePrice * 100)
	}

	return result
}
