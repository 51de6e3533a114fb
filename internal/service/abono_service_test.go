package service

import (
	"context"
	"testing"

	"credipos/internal/dto"
	"credipos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type abonoFixture struct {
	svc        AbonoService
	ventas     VentaService
	ventaRepo  *stubVentaRepo
	metodo     *model.MetodoPago
	producto   *model.Producto
	usuarioID  uuid.UUID
}

func newAbonoFixture(t *testing.T) *abonoFixture {
	p := producto("Cafe", 100, 0, 0)
	ventaRepo := newStubVentaRepo()
	prodRepo := newStubProductoRepo(p)
	metodo := &model.MetodoPago{Nombre: "Efectivo", Activo: true}
	metodoRepo := newStubMetodoPagoRepo(metodo)
	guard := NewStockGuard(prodRepo)
	ventas := NewVentaService(ventaRepo, prodRepo, metodoRepo, &stubMovimientoRepo{}, guard)
	return &abonoFixture{
		svc:       NewAbonoService(ventaRepo, metodoRepo, nil),
		ventas:    ventas,
		ventaRepo: ventaRepo,
		metodo:    metodo,
		producto:  p,
		usuarioID: uuid.New(),
	}
}

// ventaFiada creates a credit sale of 2000 with an initial 500 payment.
func (f *abonoFixture) ventaFiada(t *testing.T) uuid.UUID {
	resp, err := f.ventas.RegistrarVenta(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		Detalles:    []dto.DetalleVentaRequest{linea(f.producto, 2, 1000)},
		ClienteDesc: str("Juan"),
		Pagos: []dto.PagoVentaRequest{{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(500),
		}},
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.Venta.ID)
	require.NoError(t, err)
	return id
}

func TestRegistrarAbono(t *testing.T) {
	ctx := context.Background()

	t.Run("abono parcial reduce el saldo", func(t *testing.T) {
		f := newAbonoFixture(t)
		id := f.ventaFiada(t)

		resp, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(700),
		})
		require.NoError(t, err)
		assert.True(t, resp.Venta.SaldoNuevo.Equal(decimal.NewFromInt(800)))
		assert.Equal(t, model.VentaPendiente, resp.Venta.Estado)
	})

	t.Run("el abono que salda la venta la marca PAGADA", func(t *testing.T) {
		f := newAbonoFixture(t)
		id := f.ventaFiada(t)

		resp, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(1500),
		})
		require.NoError(t, err)
		assert.True(t, resp.Venta.SaldoNuevo.IsZero())
		assert.Equal(t, model.VentaPagada, resp.Venta.Estado)
		assert.Equal(t, model.VentaPagada, f.ventaRepo.ventas[id].Estado)
	})

	t.Run("abono mayor al saldo es rechazado sin mutar el libro", func(t *testing.T) {
		f := newAbonoFixture(t)
		id := f.ventaFiada(t)
		pagosAntes := len(f.ventaRepo.pagos)

		_, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(2000),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "excede")
		assert.Len(t, f.ventaRepo.pagos, pagosAntes)
		assert.True(t, f.ventaRepo.ventas[id].SaldoPendiente.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("venta ya pagada no acepta mas abonos", func(t *testing.T) {
		f := newAbonoFixture(t)
		id := f.ventaFiada(t)
		_, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(1500),
		})
		require.NoError(t, err)

		_, err = f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(100),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ya esta pagada")
	})

	t.Run("venta cancelada no acepta abonos", func(t *testing.T) {
		f := newAbonoFixture(t)
		id := f.ventaFiada(t)
		f.ventaRepo.ventas[id].Activo = false
		f.ventaRepo.ventas[id].Estado = model.VentaCancelada

		_, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(100),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancelada")
	})

	t.Run("metodo de pago inactivo es rechazado", func(t *testing.T) {
		f := newAbonoFixture(t)
		id := f.ventaFiada(t)
		f.metodo.Activo = false

		_, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
			MetodoPagoID: f.metodo.ID.String(),
			Monto:        decimal.NewFromInt(100),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inactivo")
	})
}

func TestListarAbonos(t *testing.T) {
	ctx := context.Background()
	f := newAbonoFixture(t)
	id := f.ventaFiada(t)

	_, err := f.svc.RegistrarAbono(ctx, id, dto.RegistrarAbonoRequest{
		MetodoPagoID: f.metodo.ID.String(),
		Monto:        decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	resp, err := f.svc.ListarAbonos(ctx, id)
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Total) // pago inicial + abono
	assert.True(t, resp.Venta.Pagado.Equal(decimal.NewFromInt(1200)))
	assert.True(t, resp.Venta.SaldoPendiente.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 60, resp.Venta.PorcentajePagado)
	assert.Equal(t, model.VentaPendiente, resp.Venta.Estado)
	assert.True(t, resp.Venta.EsFiada)
}
