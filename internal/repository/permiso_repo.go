package repository

import (
	"context"

	"credipos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormularioRepository interface {
	List(ctx context.Context) ([]model.Formulario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Formulario, error)
	ListByRol(ctx context.Context, rolID uuid.UUID) ([]model.Formulario, error)
}

type formularioRepo struct{ db *gorm.DB }

func NewFormularioRepository(db *gorm.DB) FormularioRepository { return &formularioRepo{db: db} }

func (r *formularioRepo) List(ctx context.Context) ([]model.Formulario, error) {
	var forms []model.Formulario
	err := r.db.WithContext(ctx).Order("orden ASC").Find(&forms).Error
	return forms, err
}

func (r *formularioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Formulario, error) {
	var f model.Formulario
	err := r.db.WithContext(ctx).First(&f, id).Error
	return &f, err
}

func (r *formularioRepo) ListByRol(ctx context.Context, rolID uuid.UUID) ([]model.Formulario, error) {
	var forms []model.Formulario
	err := r.db.WithContext(ctx).
		Joins("JOIN rol_formularios rf ON rf.formulario_id = formularios.id").
		Where("rf.rol_id = ?", rolID).
		Order("formularios.orden ASC").
		Find(&forms).Error
	return forms, err
}

type PermisoRepository interface {
	Create(ctx context.Context, p *model.Permiso) error
	Exists(ctx context.Context, rolID, formularioID uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.Permiso, error)
	Delete(ctx context.Context, rolID, formularioID uuid.UUID) (int64, error)
	DeleteHijos(ctx context.Context, rolID, padreID uuid.UUID) (int64, error)
	DeleteByRol(ctx context.Context, rolID uuid.UUID) (int64, error)
}

type permisoRepo struct{ db *gorm.DB }

func NewPermisoRepository(db *gorm.DB) PermisoRepository { return &permisoRepo{db: db} }

func (r *permisoRepo) Create(ctx context.Context, p *model.Permiso) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *permisoRepo) Exists(ctx context.Context, rolID, formularioID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Permiso{}).
		Where("rol_id = ? AND formulario_id = ?", rolID, formularioID).
		Count(&n).Error
	return n > 0, err
}

func (r *permisoRepo) List(ctx context.Context) ([]model.Permiso, error) {
	var permisos []model.Permiso
	err := r.db.WithContext(ctx).
		Preload("Rol").Preload("Formulario").
		Find(&permisos).Error
	return permisos, err
}

func (r *permisoRepo) Delete(ctx context.Context, rolID, formularioID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("rol_id = ? AND formulario_id = ?", rolID, formularioID).
		Delete(&model.Permiso{})
	return res.RowsAffected, res.Error
}

// DeleteHijos removes the rol's permissions on every child of a parent form.
// Used when unassigning a parent so no orphan children remain reachable.
func (r *permisoRepo) DeleteHijos(ctx context.Context, rolID, padreID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("rol_id = ? AND formulario_id IN (?)",
			rolID,
			r.db.Model(&model.Formulario{}).Select("id").Where("padre_id = ?", padreID),
		).
		Delete(&model.Permiso{})
	return res.RowsAffected, res.Error
}

func (r *permisoRepo) DeleteByRol(ctx context.Context, rolID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("rol_id = ?", rolID).Delete(&model.Permiso{})
	return res.RowsAffected, res.Error
}
