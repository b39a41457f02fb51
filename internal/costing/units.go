package costing

import "dapurbooks/backend/internal/domain"

// ConversionTable maps a unit id to its conversion factor: the unit's
// size relative to the shared base unit (grams, milliliters). Units
// without a factor (e.g. "piece") are simply absent; that is a valid
// state, not an error.
type ConversionTable map[string]float64

func NewConversionTable(units []domain.Unit) ConversionTable {
	table := make(ConversionTable, len(units))
	for _, unit := range units {
		if unit.ConversionFactor == nil {
			continue
		}
		table[unit.ID] = *unit.ConversionFactor
	}
	return table
}

func (t ConversionTable) FactorOf(unitID string) (float64, bool) {
	factor, ok := t[unitID]
	return factor, ok
}
