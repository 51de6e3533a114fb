package service

import (
	"context"
	"errors"

	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/google/uuid"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
}

type productoService struct {
	repo    repository.ProductoRepository
	movRepo repository.MovimientoStockRepository
}

func NewProductoService(repo repository.ProductoRepository, movRepo repository.MovimientoStockRepository) ProductoService {
	return &productoService{repo: repo, movRepo: movRepo}
}

func validarRangoStock(minimo, maximo int) error {
	if maximo > 0 && maximo < minimo {
		return errors.New("stock_maximo no puede ser menor que stock_minimo")
	}
	return nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarRangoStock(req.StockMinimo, req.StockMaximo); err != nil {
		return nil, err
	}
	if req.StockMaximo > 0 && req.StockActual > req.StockMaximo {
		return nil, errors.New("el stock inicial excede el stock maximo")
	}

	p := model.Producto{
		Nombre:         req.Nombre,
		Descripcion:    req.Descripcion,
		PrecioUnitario: req.PrecioUnitario,
		StockActual:    req.StockActual,
		StockMinimo:    req.StockMinimo,
		StockMaximo:    req.StockMaximo,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return productoToResponse(&p), nil
}

func (s *productoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, *productoToResponse(&p))
	}
	return out, total, nil
}

// Actualizar never touches stock_actual: the running stock only moves through
// sales, purchases and their reversals so the movement ledger stays complete.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.PrecioUnitario != nil {
		p.PrecioUnitario = *req.PrecioUnitario
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.StockMaximo != nil {
		p.StockMaximo = *req.StockMaximo
	}
	if err := validarRangoStock(p.StockMinimo, p.StockMaximo); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	if !p.Activo {
		return errors.New("el producto ya fue eliminado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("producto no encontrado")
	}
	movs, err := s.movRepo.ListByProducto(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		var ref *string
		if m.ReferenciaID != nil {
			r := m.ReferenciaID.String()
			ref = &r
		}
		out = append(out, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  ref,
			Fecha:         m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		PrecioUnitario: p.PrecioUnitario,
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		StockMaximo:    p.StockMaximo,
		Activo:         p.Activo,
	}
}
