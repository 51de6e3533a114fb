package service

import (
	"credipos/internal/model"

	"github.com/shopspring/decimal"
)

// Saldo is the derived balance snapshot of a sale. It is always recomputed
// from the total and the full payment ledger, never stored stale.
type Saldo struct {
	Pagado           decimal.Decimal
	Pendiente        decimal.Decimal
	PorcentajePagado int
	Estado           string
}

// CalcularSaldo derives {pagado, pendiente, porcentaje, estado} from a sale
// total and its payment ledger. Pendiente is clamped to zero; the percentage
// guards against division by zero (total 0 reports 0%).
func CalcularSaldo(total decimal.Decimal, pagos []model.VentaPago) Saldo {
	pagado := decimal.Zero
	for _, p := range pagos {
		pagado = pagado.Add(p.Monto)
	}

	pendiente := total.Sub(pagado)
	if pendiente.IsNegative() {
		pendiente = decimal.Zero
	}

	porcentaje := 0
	if total.IsPositive() {
		pct := pagado.Div(total).Mul(decimal.NewFromInt(100)).Round(0)
		porcentaje = int(pct.IntPart())
	}

	estado := model.VentaPendiente
	if pendiente.IsZero() {
		estado = model.VentaPagada
	}

	return Saldo{
		Pagado:           pagado,
		Pendiente:        pendiente,
		PorcentajePagado: porcentaje,
		Estado:           estado,
	}
}
