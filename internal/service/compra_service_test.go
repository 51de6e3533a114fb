package service

import (
	"context"
	"testing"

	"credipos/internal/apierror"
	"credipos/internal/dto"
	"credipos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compraFixture struct {
	svc      CompraService
	repo     *stubCompraRepo
	prodRepo *stubProductoRepo
	movRepo  *stubMovimientoRepo
	producto *model.Producto
}

func newCompraFixture(p *model.Producto) *compraFixture {
	repo := newStubCompraRepo()
	prodRepo := newStubProductoRepo(p)
	movRepo := &stubMovimientoRepo{}
	guard := NewStockGuard(prodRepo)
	return &compraFixture{
		svc:      NewCompraService(repo, prodRepo, movRepo, guard),
		repo:     repo,
		prodRepo: prodRepo,
		movRepo:  movRepo,
		producto: p,
	}
}

func lineaCompraReq(p *model.Producto, cantidad int, precio int64) dto.DetalleCompraRequest {
	return dto.DetalleCompraRequest{
		ProductoID:     p.ID.String(),
		Cantidad:       cantidad,
		PrecioUnitario: decimal.NewFromInt(precio),
	}
}

func TestRegistrarCompra(t *testing.T) {
	ctx := context.Background()
	usuario := uuid.New()

	t.Run("incrementa stock y registra el movimiento", func(t *testing.T) {
		f := newCompraFixture(producto("Cafe", 10, 0, 0))
		resp, err := f.svc.RegistrarCompra(ctx, usuario, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 20, 500)},
		})
		require.NoError(t, err)
		assert.True(t, resp.Compra.Total.Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, 30, f.producto.StockActual)
		require.Len(t, f.movRepo.movimientos, 1)
		assert.Equal(t, "compra", f.movRepo.movimientos[0].Tipo)
		assert.Equal(t, 20, f.movRepo.movimientos[0].Cantidad)
	})

	t.Run("recibir por encima del maximo es rechazado", func(t *testing.T) {
		f := newCompraFixture(producto("Cafe", 90, 0, 100))
		_, err := f.svc.RegistrarCompra(ctx, usuario, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 20, 500)},
		})
		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, apierror.CodeMaxStockBreach, stockErr.Code)
		assert.Equal(t, 90, f.producto.StockActual)
		assert.Empty(t, f.repo.compras)
	})
}

func TestActualizarCompra(t *testing.T) {
	ctx := context.Background()
	usuario := uuid.New()

	t.Run("reaplica el delta de cantidades", func(t *testing.T) {
		f := newCompraFixture(producto("Cafe", 10, 0, 0))
		resp, err := f.svc.RegistrarCompra(ctx, usuario, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 20, 500)},
		})
		require.NoError(t, err)
		id, _ := uuid.Parse(resp.Compra.ID)
		assert.Equal(t, 30, f.producto.StockActual)

		// 20 → 5: the difference of 15 goes back out of stock.
		_, err = f.svc.ActualizarCompra(ctx, id, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 5, 500)},
		})
		require.NoError(t, err)
		assert.Equal(t, 15, f.producto.StockActual)

		ultimo := f.movRepo.movimientos[len(f.movRepo.movimientos)-1]
		assert.Equal(t, "ajuste_compra", ultimo.Tipo)
		assert.Equal(t, -15, ultimo.Cantidad)
	})

	t.Run("reducir mas de lo disponible es rechazado", func(t *testing.T) {
		f := newCompraFixture(producto("Cafe", 0, 0, 0))
		resp, err := f.svc.RegistrarCompra(ctx, usuario, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 20, 500)},
		})
		require.NoError(t, err)
		id, _ := uuid.Parse(resp.Compra.ID)

		// Sell off most of the received stock out of band.
		f.producto.StockActual = 3

		_, err = f.svc.ActualizarCompra(ctx, id, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 10, 500)},
		})
		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, apierror.CodeStockNotEnough, stockErr.Code)
		assert.Equal(t, 3, f.producto.StockActual)
	})
}

func TestEliminarCompra(t *testing.T) {
	ctx := context.Background()
	usuario := uuid.New()

	t.Run("revierte el stock recibido", func(t *testing.T) {
		f := newCompraFixture(producto("Cafe", 10, 0, 0))
		resp, err := f.svc.RegistrarCompra(ctx, usuario, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 20, 500)},
		})
		require.NoError(t, err)
		id, _ := uuid.Parse(resp.Compra.ID)

		require.NoError(t, f.svc.EliminarCompra(ctx, id))
		assert.Equal(t, 10, f.producto.StockActual)
		assert.False(t, f.repo.compras[id].Activo)

		ultimo := f.movRepo.movimientos[len(f.movRepo.movimientos)-1]
		assert.Equal(t, "anulacion_compra", ultimo.Tipo)
		assert.Equal(t, -20, ultimo.Cantidad)
	})

	t.Run("stock ya vendido bloquea la anulacion", func(t *testing.T) {
		f := newCompraFixture(producto("Cafe", 0, 0, 0))
		resp, err := f.svc.RegistrarCompra(ctx, usuario, dto.RegistrarCompraRequest{
			Detalles: []dto.DetalleCompraRequest{lineaCompraReq(f.producto, 20, 500)},
		})
		require.NoError(t, err)
		id, _ := uuid.Parse(resp.Compra.ID)

		f.producto.StockActual = 5

		err = f.svc.EliminarCompra(ctx, id)
		var stockErr *apierror.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, f.repo.compras[id].Activo)
		assert.Equal(t, 5, f.producto.StockActual)
	})
}
