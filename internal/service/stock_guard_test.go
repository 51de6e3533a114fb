package service

import (
	"context"
	"errors"
	"testing"

	"credipos/internal/apierror"
	"credipos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producto(nombre string, actual, minimo, maximo int) *model.Producto {
	return &model.Producto{
		Nombre:         nombre,
		PrecioUnitario: decimal.NewFromInt(100),
		StockActual:    actual,
		StockMinimo:    minimo,
		StockMaximo:    maximo,
		Activo:         true,
	}
}

func TestStockGuardCheckSuficiente(t *testing.T) {
	ctx := context.Background()

	t.Run("pasa cuando hay stock de sobra", func(t *testing.T) {
		p := producto("Cafe", 50, 5, 0)
		guard := NewStockGuard(newStubProductoRepo(p))
		err := guard.CheckSuficiente(ctx, []LineaStock{{ProductoID: p.ID, Cantidad: 10}})
		assert.NoError(t, err)
	})

	t.Run("stock insuficiente con deficit por producto", func(t *testing.T) {
		p := producto("Cafe", 3, 0, 0)
		guard := NewStockGuard(newStubProductoRepo(p))
		err := guard.CheckSuficiente(ctx, []LineaStock{{ProductoID: p.ID, Cantidad: 10}})

		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, apierror.CodeStockNotEnough, stockErr.Code)
		require.Len(t, stockErr.Items, 1)
		assert.Equal(t, 3, stockErr.Items[0].Disponible)
		assert.Equal(t, 10, stockErr.Items[0].Solicitado)
		assert.Equal(t, 7, stockErr.Items[0].Deficit)
	})

	t.Run("romper el minimo es rechazado con faltante", func(t *testing.T) {
		p := producto("Azucar", 10, 8, 0)
		guard := NewStockGuard(newStubProductoRepo(p))
		err := guard.CheckSuficiente(ctx, []LineaStock{{ProductoID: p.ID, Cantidad: 5}})

		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, apierror.CodeMinStockBreach, stockErr.Code)
		require.Len(t, stockErr.Violations, 1)
		assert.Equal(t, 5, stockErr.Violations[0].Resultante)
		assert.Equal(t, 3, stockErr.Violations[0].Faltante)
	})

	t.Run("la insuficiencia domina sobre el minimo", func(t *testing.T) {
		sinStock := producto("Cafe", 1, 0, 0)
		bajoMinimo := producto("Azucar", 10, 8, 0)
		guard := NewStockGuard(newStubProductoRepo(sinStock, bajoMinimo))
		err := guard.CheckSuficiente(ctx, []LineaStock{
			{ProductoID: sinStock.ID, Cantidad: 5},
			{ProductoID: bajoMinimo.ID, Cantidad: 5},
		})

		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, apierror.CodeStockNotEnough, stockErr.Code)
	})
}

func TestStockGuardCheckMaximoReversion(t *testing.T) {
	ctx := context.Background()

	t.Run("maximo cero significa sin tope", func(t *testing.T) {
		p := producto("Cafe", 1000, 0, 0)
		guard := NewStockGuard(newStubProductoRepo(p))
		err := guard.CheckMaximoReversion(ctx, []LineaStock{{ProductoID: p.ID, Cantidad: 9999}})
		assert.NoError(t, err)
	})

	t.Run("superar el maximo es rechazado con exceso", func(t *testing.T) {
		p := producto("Cafe", 95, 0, 100)
		guard := NewStockGuard(newStubProductoRepo(p))
		err := guard.CheckMaximoReversion(ctx, []LineaStock{{ProductoID: p.ID, Cantidad: 10}})

		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, apierror.CodeMaxStockBreach, stockErr.Code)
		require.Len(t, stockErr.Violations, 1)
		assert.Equal(t, 105, stockErr.Violations[0].Resultante)
		assert.Equal(t, 5, stockErr.Violations[0].Exceso)
	})

	t.Run("producto desconocido devuelve error plano", func(t *testing.T) {
		guard := NewStockGuard(newStubProductoRepo())
		err := guard.CheckSuficiente(ctx, []LineaStock{{ProductoID: producto("x", 0, 0, 0).ID, Cantidad: 1}})
		var stockErr *apierror.StockError
		assert.False(t, errors.As(err, &stockErr))
		assert.Error(t, err)
	})
}
