package repository

import (
	"context"

	"credipos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RolRepository and TipoIdentificacionRepository back the remaining
// reference-data CRUD screens.

type RolRepository interface {
	Create(ctx context.Context, r *model.Rol) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Rol, error)
	List(ctx context.Context) ([]model.Rol, error)
	Update(ctx context.Context, r *model.Rol) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUsuarios(ctx context.Context, id uuid.UUID) (int64, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) Create(ctx context.Context, m *model.Rol) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *rolRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error) {
	var m model.Rol
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *rolRepo) FindByNombre(ctx context.Context, nombre string) (*model.Rol, error) {
	var m model.Rol
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&roles).Error
	return roles, err
}

func (r *rolRepo) Update(ctx context.Context, m *model.Rol) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *rolRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Rol{}, id).Error
}

func (r *rolRepo) CountUsuarios(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("rol_id = ?", id).Count(&n).Error
	return n, err
}

type TipoIdentificacionRepository interface {
	Create(ctx context.Context, t *model.TipoIdentificacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoIdentificacion, error)
	FindByNombre(ctx context.Context, nombre string) (*model.TipoIdentificacion, error)
	List(ctx context.Context) ([]model.TipoIdentificacion, error)
	Update(ctx context.Context, t *model.TipoIdentificacion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tipoIdentificacionRepo struct{ db *gorm.DB }

func NewTipoIdentificacionRepository(db *gorm.DB) TipoIdentificacionRepository {
	return &tipoIdentificacionRepo{db: db}
}

func (r *tipoIdentificacionRepo) Create(ctx context.Context, t *model.TipoIdentificacion) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoIdentificacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoIdentificacion, error) {
	var t model.TipoIdentificacion
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tipoIdentificacionRepo) FindByNombre(ctx context.Context, nombre string) (*model.TipoIdentificacion, error) {
	var t model.TipoIdentificacion
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tipoIdentificacionRepo) List(ctx context.Context) ([]model.TipoIdentificacion, error) {
	var tipos []model.TipoIdentificacion
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoIdentificacionRepo) Update(ctx context.Context, t *model.TipoIdentificacion) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoIdentificacionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TipoIdentificacion{}, id).Error
}
