package repository

import (
	"context"

	"credipos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetodoPagoRepository interface {
	Create(ctx context.Context, m *model.MetodoPago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error)
	FindByNombre(ctx context.Context, nombre string) (*model.MetodoPago, error)
	List(ctx context.Context) ([]model.MetodoPago, error)
	Update(ctx context.Context, m *model.MetodoPago) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type metodoPagoRepo struct{ db *gorm.DB }

func NewMetodoPagoRepository(db *gorm.DB) MetodoPagoRepository { return &metodoPagoRepo{db: db} }

func (r *metodoPagoRepo) Create(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *metodoPagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	var m model.MetodoPago
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *metodoPagoRepo) FindByNombre(ctx context.Context, nombre string) (*model.MetodoPago, error) {
	var m model.MetodoPago
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metodoPagoRepo) List(ctx context.Context) ([]model.MetodoPago, error) {
	var metodos []model.MetodoPago
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&metodos).Error
	return metodos, err
}

func (r *metodoPagoRepo) Update(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *metodoPagoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MetodoPago{}).Where("id = ?", id).Update("activo", false).Error
}
