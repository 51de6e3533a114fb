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

type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.RegistrarCompraResponse, error)
	ActualizarCompra(ctx context.Context, id uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	DetalleCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListCompras(ctx context.Context, incluirEliminadas bool) ([]dto.CompraResponse, error)
	EliminarCompra(ctx context.Context, id uuid.UUID) error
}

type compraService struct {
	repo         repository.CompraRepository
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoStockRepository
	guard        StockGuard
}

func NewCompraService(
	repo repository.CompraRepository,
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
	guard StockGuard,
) CompraService {
	return &compraService{repo: repo, productoRepo: productoRepo, movRepo: movRepo, guard: guard}
}

type lineaCompra struct {
	productoID uuid.UUID
	nombre     string
	cantidad   int
	precio     decimal.Decimal
	subtotal   decimal.Decimal
}

func (s *compraService) resolverLineas(ctx context.Context, detalles []dto.DetalleCompraRequest) ([]lineaCompra, decimal.Decimal, error) {
	if len(detalles) == 0 {
		return nil, decimal.Zero, errors.New("la compra debe tener al menos un producto")
	}
	if len(detalles) > maxItemsPorVenta {
		return nil, decimal.Zero, fmt.Errorf("la compra no puede tener mas de %d items", maxItemsPorVenta)
	}

	seen := make(map[uuid.UUID]bool, len(detalles))
	var lineas []lineaCompra
	total := decimal.Zero

	for i, d := range detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("id_producto invalido en la fila %d", i+1)
		}
		if seen[pid] {
			return nil, decimal.Zero, fmt.Errorf("el producto de la fila %d esta repetido", i+1)
		}
		seen[pid] = true

		if d.Cantidad < 1 || d.Cantidad > topeCantidad {
			return nil, decimal.Zero, fmt.Errorf("la cantidad de la fila %d debe estar entre 1 y %d", i+1, topeCantidad)
		}
		if d.PrecioUnitario.LessThan(decimal.NewFromInt(1)) || d.PrecioUnitario.GreaterThan(topeTotalDec) {
			return nil, decimal.Zero, fmt.Errorf("el precio unitario de la fila %d esta fuera de rango", i+1)
		}

		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("producto %s no encontrado", d.ProductoID)
		}
		if !p.Activo {
			return nil, decimal.Zero, fmt.Errorf("el producto %s esta inactivo", p.Nombre)
		}

		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		total = total.Add(subtotal)
		lineas = append(lineas, lineaCompra{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   d.Cantidad,
			precio:     d.PrecioUnitario,
			subtotal:   subtotal,
		})
	}

	if total.LessThan(decimal.NewFromInt(1)) || total.GreaterThan(topeTotalDec) {
		return nil, decimal.Zero, fmt.Errorf("el total de la compra debe estar entre 1 y %d", topeTotal)
	}
	return lineas, total, nil
}

// aplicarDelta adjusts one product's stock inside the transaction and records
// the movement with before/after snapshots.
func (s *compraService) aplicarDelta(ctx context.Context, tx *gorm.DB, productoID, refID uuid.UUID, delta int, tipo, motivo string) error {
	if delta == 0 {
		return nil
	}
	prod, err := s.productoRepo.FindByIDTx(tx, productoID)
	if err != nil {
		return err
	}
	stockAntes := prod.StockActual
	if err := s.productoRepo.UpdateStockTx(tx, productoID, delta); err != nil {
		return err
	}
	ref := refID
	return s.movRepo.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: stockAntes,
		StockNuevo:    stockAntes + delta,
		Motivo:        motivo,
		ReferenciaID:  &ref,
	})
}

// RegistrarCompra creates the purchase and increments stock in one
// transaction. Receiving more than a product's configured maximum is rejected
// before anything is written.
func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.RegistrarCompraResponse, error) {
	lineas, total, err := s.resolverLineas(ctx, req.Detalles)
	if err != nil {
		return nil, err
	}

	entrantes := make([]LineaStock, 0, len(lineas))
	for _, l := range lineas {
		entrantes = append(entrantes, LineaStock{ProductoID: l.productoID, Cantidad: l.cantidad})
	}
	if err := s.guard.CheckMaximoReversion(ctx, entrantes); err != nil {
		return nil, err
	}

	fechaCompra := time.Now()
	if req.FechaCompra != nil && *req.FechaCompra != "" {
		parsed, err := time.Parse("2006-01-02", *req.FechaCompra)
		if err != nil {
			return nil, errors.New("fecha_compra invalida, formato esperado YYYY-MM-DD")
		}
		fechaCompra = parsed
	}

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra = model.Compra{
			FechaCompra:   fechaCompra,
			Total:         total,
			Observaciones: req.Observaciones,
			UsuarioID:     usuarioID,
			Activo:        true,
		}
		for _, l := range lineas {
			compra.Detalles = append(compra.Detalles, model.CompraDetalle{
				ProductoID:     l.productoID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Subtotal:       l.subtotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &compra); err != nil {
			return err
		}
		for _, l := range lineas {
			motivo := fmt.Sprintf("Compra %s", compra.ID)
			if err := s.aplicarDelta(ctx, tx, l.productoID, compra.ID, l.cantidad, "compra", motivo); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.RegistrarCompraResponse{
		Compra:  *compraToResponse(&compra),
		Message: "Compra registrada correctamente",
	}
	for i, l := range lineas {
		resp.Compra.Detalles[i].Producto = l.nombre
	}
	return resp, nil
}

// ActualizarCompra replaces the line set and re-adjusts stock by the per
// product delta between the old and new quantities. A quantity that shrinks
// needs the difference available in stock; one that grows must respect the
// product maximum.
func (s *compraService) ActualizarCompra(ctx context.Context, id uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	if !compra.Activo {
		return nil, errors.New("la compra fue eliminada y no puede modificarse")
	}

	lineas, total, err := s.resolverLineas(ctx, req.Detalles)
	if err != nil {
		return nil, err
	}

	anteriores := make(map[uuid.UUID]int, len(compra.Detalles))
	for _, d := range compra.Detalles {
		anteriores[d.ProductoID] = d.Cantidad
	}

	deltas := make(map[uuid.UUID]int, len(lineas))
	for _, l := range lineas {
		deltas[l.productoID] = l.cantidad - anteriores[l.productoID]
	}
	for pid, cant := range anteriores {
		if _, sigue := deltas[pid]; !sigue {
			// Removed line: undo the original increment.
			deltas[pid] = -cant
		}
	}

	var salientes, entrantes []LineaStock
	for pid, delta := range deltas {
		switch {
		case delta < 0:
			salientes = append(salientes, LineaStock{ProductoID: pid, Cantidad: -delta})
		case delta > 0:
			entrantes = append(entrantes, LineaStock{ProductoID: pid, Cantidad: delta})
		}
	}
	if len(salientes) > 0 {
		if err := s.guard.CheckSuficiente(ctx, salientes); err != nil {
			return nil, err
		}
	}
	if len(entrantes) > 0 {
		if err := s.guard.CheckMaximoReversion(ctx, entrantes); err != nil {
			return nil, err
		}
	}

	if req.FechaCompra != nil && *req.FechaCompra != "" {
		parsed, err := time.Parse("2006-01-02", *req.FechaCompra)
		if err != nil {
			return nil, errors.New("fecha_compra invalida, formato esperado YYYY-MM-DD")
		}
		compra.FechaCompra = parsed
	}
	compra.Total = total
	compra.Observaciones = req.Observaciones

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, compra); err != nil {
			return err
		}
		nuevos := make([]model.CompraDetalle, 0, len(lineas))
		for _, l := range lineas {
			nuevos = append(nuevos, model.CompraDetalle{
				ProductoID:     l.productoID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Subtotal:       l.subtotal,
			})
		}
		if err := s.repo.ReplaceDetallesTx(tx, compra.ID, nuevos); err != nil {
			return err
		}
		for pid, delta := range deltas {
			motivo := fmt.Sprintf("Ajuste compra %s", compra.ID)
			if err := s.aplicarDelta(ctx, tx, pid, compra.ID, delta, "ajuste_compra", motivo); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	actualizada, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return compraToResponse(actualizada), nil
}

func (s *compraService) DetalleCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	return compraToResponse(compra), nil
}

func (s *compraService) ListCompras(ctx context.Context, incluirEliminadas bool) ([]dto.CompraResponse, error) {
	compras, err := s.repo.List(ctx, incluirEliminadas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for _, c := range compras {
		out = append(out, *compraToResponse(&c))
	}
	return out, nil
}

// EliminarCompra soft deletes the purchase and takes the received quantities
// back out of stock. The removal needs the quantities still available; a
// product already sold past that point blocks the whole deletion.
func (s *compraService) EliminarCompra(ctx context.Context, id uuid.UUID) error {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("compra no encontrada")
	}
	if !compra.Activo {
		return errors.New("la compra ya fue eliminada")
	}

	salientes := make([]LineaStock, 0, len(compra.Detalles))
	for _, d := range compra.Detalles {
		salientes = append(salientes, LineaStock{ProductoID: d.ProductoID, Cantidad: d.Cantidad})
	}
	if err := s.guard.CheckSuficiente(ctx, salientes); err != nil {
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, d := range compra.Detalles {
			motivo := fmt.Sprintf("Anulacion compra %s", compra.ID)
			if err := s.aplicarDelta(ctx, tx, d.ProductoID, compra.ID, -d.Cantidad, "anulacion_compra", motivo); err != nil {
				return err
			}
		}
		return s.repo.SoftDeleteTx(tx, compra.ID)
	})
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	detalles := make([]dto.DetalleCompraResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleCompraResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	usuario := ""
	if c.Usuario != nil {
		usuario = c.Usuario.Nombre
	}
	return &dto.CompraResponse{
		ID:            c.ID.String(),
		FechaCompra:   c.FechaCompra.Format("2006-01-02"),
		Total:         c.Total,
		Observaciones: c.Observaciones,
		Usuario:       usuario,
		Detalles:      detalles,
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
