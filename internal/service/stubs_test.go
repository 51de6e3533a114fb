package service

import (
	"context"
	"errors"
	"time"

	"credipos/internal/dto"
	"credipos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs. DB() returns nil so runTx executes the callback directly,
// letting the services run without a database.

var errNoEncontrado = errors.New("registro no encontrado")

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	pagos  []model.VentaPago
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

func (r *stubVentaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		if v.Detalles[i].ID == uuid.Nil {
			v.Detalles[i].ID = uuid.New()
		}
		v.Detalles[i].VentaID = v.ID
	}
	for i := range v.Pagos {
		if v.Pagos[i].ID == uuid.Nil {
			v.Pagos[i].ID = uuid.New()
		}
		v.Pagos[i].VentaID = v.ID
		r.pagos = append(r.pagos, v.Pagos[i])
	}
	v.CreatedAt = time.Now()
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return v, nil
}

func (r *stubVentaRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(ctx, id)
}

func (r *stubVentaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if !filter.IncluirEliminadas && !v.Activo {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo interface{}, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errNoEncontrado
	}
	if d, ok := saldo.(decimal.Decimal); ok {
		v.SaldoPendiente = d
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) SoftDeleteTx(tx *gorm.DB, v *model.Venta) error {
	guardada, ok := r.ventas[v.ID]
	if !ok {
		return errNoEncontrado
	}
	guardada.Activo = false
	guardada.Estado = model.VentaCancelada
	guardada.EliminadaEn = v.EliminadaEn
	guardada.EliminadaPor = v.EliminadaPor
	guardada.MotivoEliminacion = v.MotivoEliminacion
	return nil
}

func (r *stubVentaRepo) CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubVentaRepo) ListPagos(ctx context.Context, ventaID uuid.UUID) ([]model.VentaPago, error) {
	var out []model.VentaPago
	for _, p := range r.pagos {
		if p.VentaID == ventaID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo(productos ...*model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
	for _, p := range productos {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) Create(ctx context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListAll(ctx context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductoRepo) Update(ctx context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNoEncontrado
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errNoEncontrado
	}
	p.StockActual += delta
	return nil
}

type stubMetodoPagoRepo struct {
	metodos map[uuid.UUID]*model.MetodoPago
}

func newStubMetodoPagoRepo(metodos ...*model.MetodoPago) *stubMetodoPagoRepo {
	r := &stubMetodoPagoRepo{metodos: make(map[uuid.UUID]*model.MetodoPago)}
	for _, m := range metodos {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		r.metodos[m.ID] = m
	}
	return r
}

func (r *stubMetodoPagoRepo) Create(ctx context.Context, m *model.MetodoPago) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.metodos[m.ID] = m
	return nil
}

func (r *stubMetodoPagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	m, ok := r.metodos[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return m, nil
}

func (r *stubMetodoPagoRepo) FindByNombre(ctx context.Context, nombre string) (*model.MetodoPago, error) {
	for _, m := range r.metodos {
		if m.Nombre == nombre {
			return m, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubMetodoPagoRepo) List(ctx context.Context) ([]model.MetodoPago, error) {
	var out []model.MetodoPago
	for _, m := range r.metodos {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMetodoPagoRepo) Update(ctx context.Context, m *model.MetodoPago) error {
	r.metodos[m.ID] = m
	return nil
}

func (r *stubMetodoPagoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	m, ok := r.metodos[id]
	if !ok {
		return errNoEncontrado
	}
	m.Activo = false
	return nil
}

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Detalles {
		if c.Detalles[i].ID == uuid.Nil {
			c.Detalles[i].ID = uuid.New()
		}
		c.Detalles[i].CompraID = c.ID
	}
	c.CreatedAt = time.Now()
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return c, nil
}

func (r *stubCompraRepo) List(ctx context.Context, incluirEliminadas bool) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if !incluirEliminadas && !c.Activo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCompraRepo) UpdateTx(tx *gorm.DB, c *model.Compra) error {
	guardada, ok := r.compras[c.ID]
	if !ok {
		return errNoEncontrado
	}
	guardada.Total = c.Total
	guardada.FechaCompra = c.FechaCompra
	guardada.Observaciones = c.Observaciones
	return nil
}

func (r *stubCompraRepo) ReplaceDetallesTx(tx *gorm.DB, compraID uuid.UUID, detalles []model.CompraDetalle) error {
	c, ok := r.compras[compraID]
	if !ok {
		return errNoEncontrado
	}
	for i := range detalles {
		if detalles[i].ID == uuid.Nil {
			detalles[i].ID = uuid.New()
		}
		detalles[i].CompraID = compraID
	}
	c.Detalles = detalles
	return nil
}

func (r *stubCompraRepo) SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	c, ok := r.compras[id]
	if !ok {
		return errNoEncontrado
	}
	c.Activo = false
	return nil
}
