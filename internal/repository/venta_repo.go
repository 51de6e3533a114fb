package repository

import (
	"context"

	"credipos/internal/dto"
	"credipos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDForUpdate takes a row lock on the venta so concurrent abono
	// registrations cannot read a stale saldo. Must run inside tx.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo interface{}, estado string) error
	SoftDeleteTx(tx *gorm.DB, v *model.Venta) error
	CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error
	ListPagos(ctx context.Context, ventaID uuid.UUID) ([]model.VentaPago, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Pagos.MetodoPago").
		Preload("Usuario").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if !filter.IncluirEliminadas {
		q = q.Where("activo = true")
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha_venta) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles.Producto").Preload("Pagos").Preload("Usuario").
		Order("fecha_venta DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo interface{}, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"saldo_pendiente": saldo,
		"estado":          estado,
	}).Error
}

func (r *ventaRepo) SoftDeleteTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"activo":             false,
		"estado":             model.VentaCancelada,
		"eliminada_en":       v.EliminadaEn,
		"eliminada_por":      v.EliminadaPor,
		"motivo_eliminacion": v.MotivoEliminacion,
	}).Error
}

func (r *ventaRepo) CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error {
	return tx.Create(p).Error
}

func (r *ventaRepo) ListPagos(ctx context.Context, ventaID uuid.UUID) ([]model.VentaPago, error) {
	var pagos []model.VentaPago
	err := r.db.WithContext(ctx).
		Preload("MetodoPago").
		Where("venta_id = ?", ventaID).
		Order("fecha_pago ASC").
		Find(&pagos).Error
	return pagos, err
}
