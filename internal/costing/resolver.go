package costing

import (
	"math"

	"dapurbooks/backend/internal/domain"
)

// CostMode identifies which pricing rule resolved an ingredient cost.
// Mode selection is a strict priority: packaged pricing overrides unit
// reasoning entirely, direct proportion applies when no conversion is
// needed, cross-unit conversion applies when both factors are known, and
// the fallback reuses the direct proportion on raw amounts.
type CostMode string

const (
	ModePackaged   CostMode = "packaged"
	ModeDirectUnit CostMode = "direct_unit"
	ModeConverted  CostMode = "converted"
	ModeFallback   CostMode = "fallback"
)

// IngredientCost is one resolved ingredient row. Cost is rounded to two
// decimals at the point of return. Approximate marks low-confidence
// results: the fallback mode (raw-amount proportion across differing
// units) and the defensive amount→1 substitution.
type IngredientCost struct {
	ProductID   string   `json:"product_id"`
	Mode        CostMode `json:"mode"`
	Cost        float64  `json:"cost"`
	Approximate bool     `json:"approximate"`
}

// ResolveIngredientCost computes the monetary cost of consuming one
// recipe ingredient, given its source product and the unit conversion
// table. It is a total function: degenerate numeric input yields a zero
// or approximate cost, never an error.
func ResolveIngredientCost(ing domain.RecipeIngredient, product domain.Product, table ConversionTable) IngredientCost {
	raw := resolveRaw(ing, product, table)
	raw.Cost = Round2(raw.Cost)
	return raw
}

// resolveRaw is the unrounded resolver used by the recipe aggregator so
// that rounding happens once, at the value actually returned to callers.
func resolveRaw(ing domain.RecipeIngredient, product domain.Product, table ConversionTable) IngredientCost {
	result := IngredientCost{ProductID: product.ID}

	// Absent pricing is common for unpriced stock: cost 0, not an error.
	if ing.Amount <= 0 || product.PurchasePrice <= 0 {
		result.Mode = selectMode(ing, product, table)
		return result
	}

	switch mode := selectMode(ing, product, table); mode {
	case ModePackaged:
		result.Mode = mode
		result.Cost = packagedCost(ing, product)
	case ModeDirectUnit:
		result.Mode = mode
		result.Cost, result.Approximate = proportionalCost(ing.Amount, product)
	case ModeConverted:
		result.Mode = mode
		result.Cost, result.Approximate = convertedCost(ing, product, table)
	default:
		// Raw-amount proportion across differing units is a documented
		// approximation, not a true conversion.
		result.Mode = ModeFallback
		result.Cost, _ = proportionalCost(ing.Amount, product)
		result.Approximate = true
	}

	return result
}

// selectMode picks the costing rule for an ingredient/product pair.
// The order is a deliberate priority, not interchangeable.
func selectMode(ing domain.RecipeIngredient, product domain.Product, table ConversionTable) CostMode {
	if product.PiecesPerPackage != nil && *product.PiecesPerPackage > 0 {
		return ModePackaged
	}
	if ing.UnitID == nil || product.UnitID == "" || *ing.UnitID == product.UnitID {
		return ModeDirectUnit
	}
	_, ingOK := table.FactorOf(*ing.UnitID)
	_, prodOK := table.FactorOf(product.UnitID)
	if ingOK && prodOK {
		return ModeConverted
	}
	return ModeFallback
}

// packagedCost prices per piece: the package price divided by pieces,
// regardless of declared units.
func packagedCost(ing domain.RecipeIngredient, product domain.Product) float64 {
	return ing.Amount * (product.PurchasePrice / *product.PiecesPerPackage)
}

// proportionalCost prices amount as a fraction of the stocked quantity.
// A zero or missing product amount is treated as 1 to avoid dividing by
// zero; the result is flagged approximate since that substitution is a
// defensive default, not a business rule.
func proportionalCost(amount float64, product domain.Product) (float64, bool) {
	stocked := product.Amount
	approximate := false
	if stocked <= 0 {
		stocked = 1
		approximate = true
	}
	return (amount / stocked) * product.PurchasePrice, approximate
}

// convertedCost converts the ingredient amount into the product's unit
// before applying the price proportion.
func convertedCost(ing domain.RecipeIngredient, product domain.Product, table ConversionTable) (float64, bool) {
	ingFactor, _ := table.FactorOf(*ing.UnitID)
	prodFactor, _ := table.FactorOf(product.UnitID)
	if prodFactor == 0 {
		cost, _ := proportionalCost(ing.Amount, product)
		return cost, true
	}
	converted := ing.Amount * (ingFactor / prodFactor)
	return proportionalCost(converted, product)
}

// Round2 rounds a monetary value to two decimals. Intermediate sums stay
// in full precision; only values handed back to callers go through here.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
