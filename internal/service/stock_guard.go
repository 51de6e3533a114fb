package service

import (
	"context"
	"fmt"

	"credipos/internal/apierror"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/google/uuid"
)

// LineaStock is one product/quantity pair checked by the guard.
type LineaStock struct {
	ProductoID uuid.UUID
	Cantidad   int
}

// StockGuard validates min/max stock constraints before a sale is committed
// or reverted. Violations come back as *apierror.StockError with the full
// per-product detail; the guard never mutates stock itself.
type StockGuard interface {
	// CheckSuficiente fails with STOCK_NOT_ENOUGH when any product cannot
	// cover the requested quantity, or MIN_STOCK_BREACH when committing
	// would leave a product below its configured minimum.
	CheckSuficiente(ctx context.Context, lineas []LineaStock) error
	// CheckMaximoReversion fails with MAX_STOCK_BREACH when returning the
	// quantities to stock would push any product over its configured
	// maximum (maximo = 0 means unbounded).
	CheckMaximoReversion(ctx context.Context, lineas []LineaStock) error
}

type stockGuard struct {
	repo repository.ProductoRepository
}

func NewStockGuard(repo repository.ProductoRepository) StockGuard {
	return &stockGuard{repo: repo}
}

func (g *stockGuard) resolver(ctx context.Context, lineas []LineaStock) (map[uuid.UUID]model.Producto, error) {
	ids := make([]uuid.UUID, 0, len(lineas))
	for _, l := range lineas {
		ids = append(ids, l.ProductoID)
	}
	productos, err := g.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Producto, len(productos))
	for _, p := range productos {
		byID[p.ID] = p
	}
	for _, l := range lineas {
		if _, ok := byID[l.ProductoID]; !ok {
			return nil, fmt.Errorf("producto %s no encontrado", l.ProductoID)
		}
	}
	return byID, nil
}

func (g *stockGuard) CheckSuficiente(ctx context.Context, lineas []LineaStock) error {
	byID, err := g.resolver(ctx, lineas)
	if err != nil {
		return err
	}

	var faltantes []apierror.StockItem
	var bajoMinimo []apierror.StockViolacion

	for _, l := range lineas {
		p := byID[l.ProductoID]
		if p.StockActual < l.Cantidad {
			faltantes = append(faltantes, apierror.StockItem{
				ProductoID: p.ID.String(),
				Nombre:     p.Nombre,
				Disponible: p.StockActual,
				Solicitado: l.Cantidad,
				Deficit:    l.Cantidad - p.StockActual,
			})
			continue
		}
		resultante := p.StockActual - l.Cantidad
		if resultante < p.StockMinimo {
			bajoMinimo = append(bajoMinimo, apierror.StockViolacion{
				ProductoID:  p.ID.String(),
				Nombre:      p.Nombre,
				StockActual: p.StockActual,
				StockMinimo: p.StockMinimo,
				Resultante:  resultante,
				Faltante:    p.StockMinimo - resultante,
			})
		}
	}

	// Hard insufficiency dominates: report it before minimum breaches so the
	// client shows the unsellable products first.
	if len(faltantes) > 0 {
		return apierror.NewStockNotEnough(faltantes)
	}
	if len(bajoMinimo) > 0 {
		return apierror.NewMinStockBreach(bajoMinimo)
	}
	return nil
}

func (g *stockGuard) CheckMaximoReversion(ctx context.Context, lineas []LineaStock) error {
	byID, err := g.resolver(ctx, lineas)
	if err != nil {
		return err
	}

	var excesos []apierror.StockViolacion
	for _, l := range lineas {
		p := byID[l.ProductoID]
		if p.StockMaximo <= 0 {
			continue
		}
		resultante := p.StockActual + l.Cantidad
		if resultante > p.StockMaximo {
			excesos = append(excesos, apierror.StockViolacion{
				ProductoID:  p.ID.String(),
				Nombre:      p.Nombre,
				StockActual: p.StockActual,
				StockMaximo: p.StockMaximo,
				Resultante:  resultante,
				Exceso:      resultante - p.StockMaximo,
			})
		}
	}

	if len(excesos) > 0 {
		return apierror.NewMaxStockBreach(excesos)
	}
	return nil
}
