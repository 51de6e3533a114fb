package repository

import (
	"context"
	"time"

	"credipos/internal/model"

	"gorm.io/gorm"
)

// ReporteRepository serves the read side of reporting. It only fetches rows
// in range; aggregation happens in the service so the numbers stay testable
// without a database.
type ReporteRepository interface {
	VentasEnRango(ctx context.Context, inicio, fin time.Time) ([]model.Venta, error)
	ComprasEnRango(ctx context.Context, inicio, fin time.Time) ([]model.Compra, error)
	VentasPendientes(ctx context.Context) ([]model.Venta, error)
	ProductosActivos(ctx context.Context) ([]model.Producto, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) VentasEnRango(ctx context.Context, inicio, fin time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Usuario").
		Where("activo = true AND fecha_venta >= ? AND fecha_venta < ?", inicio, fin).
		Order("fecha_venta ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *reporteRepo) ComprasEnRango(ctx context.Context, inicio, fin time.Time) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Usuario").
		Where("activo = true AND fecha_compra >= ? AND fecha_compra < ?", inicio, fin).
		Order("fecha_compra ASC").
		Find(&compras).Error
	return compras, err
}

func (r *reporteRepo) VentasPendientes(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("activo = true AND estado = ?", model.VentaPendiente).
		Find(&ventas).Error
	return ventas, err
}

func (r *reporteRepo) ProductosActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("activo = true").Find(&productos).Error
	return productos, err
}
