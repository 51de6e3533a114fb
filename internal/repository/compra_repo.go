package repository

import (
	"context"

	"credipos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, incluirEliminadas bool) ([]model.Compra, error)
	UpdateTx(tx *gorm.DB, c *model.Compra) error
	ReplaceDetallesTx(tx *gorm.DB, compraID uuid.UUID, detalles []model.CompraDetalle) error
	SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Usuario.TipoIdentificacion").
		First(&c, id).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, incluirEliminadas bool) ([]model.Compra, error) {
	var compras []model.Compra
	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if !incluirEliminadas {
		q = q.Where("activo = true")
	}
	err := q.Preload("Detalles.Producto").Preload("Usuario.TipoIdentificacion").
		Order("fecha_compra DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) UpdateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Model(&model.Compra{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"total":         c.Total,
		"fecha_compra":  c.FechaCompra,
		"observaciones": c.Observaciones,
	}).Error
}

func (r *compraRepo) ReplaceDetallesTx(tx *gorm.DB, compraID uuid.UUID, detalles []model.CompraDetalle) error {
	if err := tx.Where("compra_id = ?", compraID).Delete(&model.CompraDetalle{}).Error; err != nil {
		return err
	}
	for i := range detalles {
		detalles[i].CompraID = compraID
	}
	return tx.Create(&detalles).Error
}

func (r *compraRepo) SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Compra{}).Where("id = ?", id).Update("activo", false).Error
}
