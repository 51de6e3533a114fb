package repository

import (
	"context"

	"credipos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	if limit <= 0 {
		limit = 100
	}
	var movs []model.MovimientoStock
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movs).Error
	return movs, err
}
