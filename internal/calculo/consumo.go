// Package calculo computes the derived consumption figures of rollos and
// liquidaciones. Every read path (API views, PDF) goes through these functions
// so summation order and rounding are identical everywhere.
package calculo

import (
	"liquidaciontextil/internal/model"

	"github.com/shopspring/decimal"
)

// Decimales is the precision of every figure exposed to clients.
const Decimales = 2

// Totales are the per-liquidación derived figures, each rounded independently.
type Totales struct {
	MetrosIniciales decimal.Decimal
	ConsumoTotal    decimal.Decimal
	Diferencia      decimal.Decimal
}

// Redondear rounds to two decimals, half away from zero (2.345 → 2.35, -2.345 → -2.35).
func Redondear(d decimal.Decimal) decimal.Decimal {
	return d.Round(Decimales)
}

// ConsumoRollo returns Σ largo_trazo × numero_capas, unrounded. Zero for no espigas.
func ConsumoRollo(espigas []model.Espiga) decimal.Decimal {
	total := decimal.Zero
	for _, e := range espigas {
		total = total.Add(e.LargoTrazo.Mul(decimal.NewFromInt(int64(e.NumeroCapas))))
	}
	return total
}

// TotalesLiquidacion sums metros iniciales and consumo over the rollos and derives
// the diferencia. Intermediate sums are never rounded.
func TotalesLiquidacion(rollos []model.Rollo) Totales {
	metros, consumo := sumar(rollos)
	return Totales{
		MetrosIniciales: Redondear(metros),
		ConsumoTotal:    Redondear(consumo),
		Diferencia:      Redondear(metros.Sub(consumo)),
	}
}

// MetrosProcesados is the total consumo across several liquidaciones (cliente view).
func MetrosProcesados(liquidaciones []model.Liquidacion) decimal.Decimal {
	total := decimal.Zero
	for _, l := range liquidaciones {
		_, consumo := sumar(l.Rollos)
		total = total.Add(consumo)
	}
	return Redondear(total)
}

func sumar(rollos []model.Rollo) (metros, consumo decimal.Decimal) {
	metros, consumo = decimal.Zero, decimal.Zero
	for _, r := range rollos {
		metros = metros.Add(r.MetrosIniciales)
		consumo = consumo.Add(ConsumoRollo(r.Espigas))
	}
	return metros, consumo
}
