package service

import (
	"testing"

	"credipos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pago(monto int64) model.VentaPago {
	return model.VentaPago{Monto: decimal.NewFromInt(monto)}
}

func TestCalcularSaldo(t *testing.T) {
	t.Run("sin pagos queda todo pendiente", func(t *testing.T) {
		s := CalcularSaldo(decimal.NewFromInt(2000), nil)
		assert.True(t, s.Pagado.IsZero())
		assert.True(t, s.Pendiente.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, 0, s.PorcentajePagado)
		assert.Equal(t, model.VentaPendiente, s.Estado)
	})

	t.Run("pago parcial", func(t *testing.T) {
		s := CalcularSaldo(decimal.NewFromInt(2000), []model.VentaPago{pago(500)})
		assert.True(t, s.Pendiente.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, 25, s.PorcentajePagado)
		assert.Equal(t, model.VentaPendiente, s.Estado)
	})

	t.Run("pago completo en varios abonos", func(t *testing.T) {
		s := CalcularSaldo(decimal.NewFromInt(2000), []model.VentaPago{pago(500), pago(1500)})
		assert.True(t, s.Pendiente.IsZero())
		assert.Equal(t, 100, s.PorcentajePagado)
		assert.Equal(t, model.VentaPagada, s.Estado)
	})

	t.Run("sobrepago no produce saldo negativo", func(t *testing.T) {
		s := CalcularSaldo(decimal.NewFromInt(1000), []model.VentaPago{pago(1200)})
		assert.True(t, s.Pendiente.IsZero())
		assert.Equal(t, model.VentaPagada, s.Estado)
	})

	t.Run("total cero reporta cero por ciento", func(t *testing.T) {
		s := CalcularSaldo(decimal.Zero, nil)
		assert.Equal(t, 0, s.PorcentajePagado)
		assert.Equal(t, model.VentaPagada, s.Estado)
	})
}
