package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxItemsPorVenta = 200
	topeTotal        = 99_999_999
	topeCantidad     = 999_999
)

var topeTotalDec = decimal.NewFromInt(topeTotal)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.RegistrarVentaResponse, error)
	DetalleVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	EliminarVenta(ctx context.Context, id, usuarioID uuid.UUID, motivo string) error
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	metodoRepo   repository.MetodoPagoRepository
	movRepo      repository.MovimientoStockRepository
	guard        StockGuard
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	metodoRepo repository.MetodoPagoRepository,
	movRepo repository.MovimientoStockRepository,
	guard StockGuard,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		metodoRepo:   metodoRepo,
		movRepo:      movRepo,
		guard:        guard,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Validate lines (no duplicate product, bounds) and payments
//   2. Classify: full payment → PAGADA; partial → fiada, requires cliente_desc
//   3. Stock guard pre-flight (sufficiency + minimum)
//   4. BEGIN TX: create venta+detalles+pagos, descontar stock, movimientos
//   5. COMMIT

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.RegistrarVentaResponse, error) {
	if len(req.Detalles) == 0 {
		return nil, errors.New("la venta debe tener al menos un producto")
	}
	if len(req.Detalles) > maxItemsPorVenta {
		return nil, fmt.Errorf("la venta no puede tener mas de %d items", maxItemsPorVenta)
	}

	type lineaResuelta struct {
		productoID uuid.UUID
		nombre     string
		cantidad   int
		precio     decimal.Decimal
		subtotal   decimal.Decimal
	}

	seen := make(map[uuid.UUID]bool, len(req.Detalles))
	var resueltas []lineaResuelta
	total := decimal.Zero

	for i, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("id_producto invalido en la fila %d", i+1)
		}
		if seen[pid] {
			return nil, fmt.Errorf("el producto de la fila %d esta repetido", i+1)
		}
		seen[pid] = true

		if d.Cantidad < 1 || d.Cantidad > topeCantidad {
			return nil, fmt.Errorf("la cantidad de la fila %d debe estar entre 1 y %d", i+1, topeCantidad)
		}
		if d.PrecioUnitario.LessThan(decimal.NewFromInt(1)) || d.PrecioUnitario.GreaterThan(topeTotalDec) {
			return nil, fmt.Errorf("el precio unitario de la fila %d esta fuera de rango", i+1)
		}

		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", d.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("el producto %s esta inactivo y no puede venderse", p.Nombre)
		}

		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		total = total.Add(subtotal)
		resueltas = append(resueltas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   d.Cantidad,
			precio:     d.PrecioUnitario,
			subtotal:   subtotal,
		})
	}

	if total.LessThan(decimal.NewFromInt(1)) || total.GreaterThan(topeTotalDec) {
		return nil, fmt.Errorf("el total de la venta debe estar entre 1 y %d", topeTotal)
	}

	// Payments: resolve methods and classify the sale.
	totalPagos := decimal.Zero
	for i, pago := range req.Pagos {
		mid, err := uuid.Parse(pago.MetodoPagoID)
		if err != nil {
			return nil, fmt.Errorf("id_metodo_pago invalido en el pago %d", i+1)
		}
		m, err := s.metodoRepo.FindByID(ctx, mid)
		if err != nil {
			return nil, fmt.Errorf("metodo de pago del pago %d no encontrado", i+1)
		}
		if !m.Activo {
			return nil, fmt.Errorf("el metodo de pago %s esta inactivo", m.Nombre)
		}
		totalPagos = totalPagos.Add(pago.Monto)
	}

	if totalPagos.GreaterThan(total) {
		exceso := totalPagos.Sub(total)
		return nil, fmt.Errorf("el total de pagos excede el total de la venta por %s", exceso.StringFixed(0))
	}

	esFiada := totalPagos.LessThan(total)
	if esFiada {
		if req.ClienteDesc == nil || *req.ClienteDesc == "" {
			return nil, errors.New("para ventas fiadas es obligatorio especificar el nombre del cliente")
		}
	}

	// Stock guard pre-flight, outside the TX. The TX re-applies deltas via
	// atomic UPDATE so a racing sale can still only fail, not oversell below
	// zero in a single request path.
	lineas := make([]LineaStock, 0, len(resueltas))
	for _, r := range resueltas {
		lineas = append(lineas, LineaStock{ProductoID: r.productoID, Cantidad: r.cantidad})
	}
	if err := s.guard.CheckSuficiente(ctx, lineas); err != nil {
		return nil, err
	}

	fechaVenta := time.Now()
	if req.FechaVenta != nil && *req.FechaVenta != "" {
		parsed, err := time.Parse("2006-01-02", *req.FechaVenta)
		if err != nil {
			return nil, errors.New("fecha_venta invalida, formato esperado YYYY-MM-DD")
		}
		fechaVenta = parsed
	}

	saldo := total.Sub(totalPagos)
	estado := model.VentaPagada
	if saldo.IsPositive() {
		estado = model.VentaPendiente
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta = model.Venta{
			FechaVenta:     fechaVenta,
			Total:          total,
			ClienteDesc:    req.ClienteDesc,
			Observaciones:  req.Observaciones,
			EsFiada:        esFiada,
			SaldoPendiente: saldo,
			Estado:         estado,
			UsuarioID:      usuarioID,
			Activo:         true,
		}

		for _, r := range resueltas {
			venta.Detalles = append(venta.Detalles, model.VentaDetalle{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Subtotal:       r.subtotal,
			})
		}
		ahora := time.Now()
		for _, pago := range req.Pagos {
			mid, _ := uuid.Parse(pago.MetodoPagoID)
			venta.Pagos = append(venta.Pagos, model.VentaPago{
				MetodoPagoID:  mid,
				Monto:         pago.Monto,
				Observaciones: pago.Observaciones,
				FechaPago:     ahora,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, r := range resueltas {
			prod, err := s.productoRepo.FindByIDTx(tx, r.productoID)
			if err != nil {
				return fmt.Errorf("producto %s no encontrado al descontar stock", r.nombre)
			}
			stockAntes := prod.StockActual
			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, -r.cantidad); err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "venta",
				Cantidad:      -r.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - r.cantidad,
				Motivo:        fmt.Sprintf("Venta %s", venta.ID),
				ReferenciaID:  &ref,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.RegistrarVentaResponse{
		Venta:   *ventaToResponse(&venta),
		Message: "Venta registrada correctamente",
	}
	for i, r := range resueltas {
		resp.Venta.Detalles[i].Producto = r.nombre
	}
	return resp, nil
}

// ── EliminarVenta ─────────────────────────────────────────────────────────────
// Soft delete with audit trail. Stock is returned for every line; the guard
// rejects the whole operation when any product would exceed its maximum;
// no partial reversal ever happens.

func (s *ventaService) EliminarVenta(ctx context.Context, id, usuarioID uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if !venta.Activo {
		return errors.New("la venta ya fue eliminada")
	}

	lineas := make([]LineaStock, 0, len(venta.Detalles))
	for _, d := range venta.Detalles {
		lineas = append(lineas, LineaStock{ProductoID: d.ProductoID, Cantidad: d.Cantidad})
	}
	if err := s.guard.CheckMaximoReversion(ctx, lineas); err != nil {
		return err
	}

	ahora := time.Now()
	venta.EliminadaEn = &ahora
	venta.EliminadaPor = &usuarioID
	if motivo != "" {
		venta.MotivoEliminacion = &motivo
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, d := range venta.Detalles {
			prod, err := s.productoRepo.FindByIDTx(tx, d.ProductoID)
			if err != nil {
				return err
			}
			stockAntes := prod.StockActual
			if err := s.productoRepo.UpdateStockTx(tx, d.ProductoID, d.Cantidad); err != nil {
				return err
			}
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    d.ProductoID,
				Tipo:          "anulacion_venta",
				Cantidad:      d.Cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes + d.Cantidad,
				Motivo:        fmt.Sprintf("Anulacion venta %s: %s", venta.ID, motivo),
				ReferenciaID:  &ref,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return s.repo.SoftDeleteTx(tx, venta)
	})
}

func (s *ventaService) DetalleVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaListItem, 0, len(ventas))
	for _, v := range ventas {
		items = append(items, *ventaToListItem(&v))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToListItem(v *model.Venta) *dto.VentaListItem {
	productos := make([]string, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		if d.Producto != nil {
			productos = append(productos, d.Producto.Nombre)
		}
	}
	usuario := ""
	if v.Usuario != nil {
		usuario = v.Usuario.Nombre
	}
	return &dto.VentaListItem{
		ID:             v.ID.String(),
		FechaVenta:     v.FechaVenta.Format("2006-01-02"),
		Total:          v.Total,
		ClienteDesc:    v.ClienteDesc,
		EsFiada:        v.EsFiada,
		SaldoPendiente: v.SaldoPendiente,
		Estado:         v.Estado,
		Usuario:        usuario,
		Activo:         v.Activo,
		Productos:      productos,
	}
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:             v.ID.String(),
		FechaVenta:     v.FechaVenta.Format("2006-01-02"),
		Detalles:       detalles,
		Total:          v.Total,
		ClienteDesc:    v.ClienteDesc,
		Observaciones:  v.Observaciones,
		EsFiada:        v.EsFiada,
		SaldoPendiente: v.SaldoPendiente,
		Estado:         v.Estado,
		Activo:         v.Activo,
		CreatedAt:      v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
