package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/google/uuid"
)

// rolProtegido cannot be renamed or deleted. Seeding guarantees it exists.
const rolProtegido = "administrador"

type RolService interface {
	Crear(ctx context.Context, req dto.CrearRolRequest) (*dto.RolResponse, error)
	Listar(ctx context.Context) ([]dto.RolResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearRolRequest) (*dto.RolResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type rolService struct {
	repo        repository.RolRepository
	permisoRepo repository.PermisoRepository
}

func NewRolService(repo repository.RolRepository, permisoRepo repository.PermisoRepository) RolService {
	return &rolService{repo: repo, permisoRepo: permisoRepo}
}

func (s *rolService) Crear(ctx context.Context, req dto.CrearRolRequest) (*dto.RolResponse, error) {
	if err := validarNombreReferencia(req.Nombre); err != nil {
		return nil, err
	}
	if existente, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un rol llamado %s", existente.Nombre)
	}
	rol := model.Rol{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, &rol); err != nil {
		return nil, err
	}
	return rolToResponse(&rol), nil
}

func (s *rolService) Listar(ctx context.Context) ([]dto.RolResponse, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RolResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, *rolToResponse(&r))
	}
	return out, nil
}

func (s *rolService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearRolRequest) (*dto.RolResponse, error) {
	rol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("rol no encontrado")
	}
	if err := validarNombreReferencia(req.Nombre); err != nil {
		return nil, err
	}
	nuevo := strings.TrimSpace(req.Nombre)
	if strings.EqualFold(rol.Nombre, rolProtegido) && !strings.EqualFold(nuevo, rolProtegido) {
		return nil, errors.New("el rol administrador no puede renombrarse")
	}
	if existente, err := s.repo.FindByNombre(ctx, nuevo); err == nil && existente != nil && existente.ID != rol.ID {
		return nil, fmt.Errorf("ya existe un rol llamado %s", existente.Nombre)
	}

	rol.Nombre = nuevo
	rol.Descripcion = req.Descripcion
	if err := s.repo.Update(ctx, rol); err != nil {
		return nil, err
	}
	return rolToResponse(rol), nil
}

// Eliminar rejects roles still assigned to users and cleans the role's
// permission rows before removing the role itself.
func (s *rolService) Eliminar(ctx context.Context, id uuid.UUID) error {
	rol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("rol no encontrado")
	}
	if strings.EqualFold(rol.Nombre, rolProtegido) {
		return errors.New("el rol administrador no puede eliminarse")
	}
	n, err := s.repo.CountUsuarios(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("el rol tiene %d usuarios asignados y no puede eliminarse", n)
	}
	if _, err := s.permisoRepo.DeleteByRol(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func rolToResponse(r *model.Rol) *dto.RolResponse {
	return &dto.RolResponse{
		ID:          r.ID.String(),
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
	}
}

type TipoIdentificacionService interface {
	Crear(ctx context.Context, req dto.CrearTipoIdentificacionRequest) (*dto.TipoIdentificacionResponse, error)
	Listar(ctx context.Context) ([]dto.TipoIdentificacionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearTipoIdentificacionRequest) (*dto.TipoIdentificacionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type tipoIdentificacionService struct {
	repo repository.TipoIdentificacionRepository
}

func NewTipoIdentificacionService(repo repository.TipoIdentificacionRepository) TipoIdentificacionService {
	return &tipoIdentificacionService{repo: repo}
}

func (s *tipoIdentificacionService) Crear(ctx context.Context, req dto.CrearTipoIdentificacionRequest) (*dto.TipoIdentificacionResponse, error) {
	if err := validarNombreReferencia(req.Nombre); err != nil {
		return nil, err
	}
	if existente, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un tipo de identificacion llamado %s", existente.Nombre)
	}
	t := model.TipoIdentificacion{
		Nombre:      strings.TrimSpace(req.Nombre),
		Abreviatura: req.Abreviatura,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, err
	}
	return tipoIdentificacionToResponse(&t), nil
}

func (s *tipoIdentificacionService) Listar(ctx context.Context) ([]dto.TipoIdentificacionResponse, error) {
	tipos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoIdentificacionResponse, 0, len(tipos))
	for _, t := range tipos {
		out = append(out, *tipoIdentificacionToResponse(&t))
	}
	return out, nil
}

func (s *tipoIdentificacionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearTipoIdentificacionRequest) (*dto.TipoIdentificacionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("tipo de identificacion no encontrado")
	}
	if err := validarNombreReferencia(req.Nombre); err != nil {
		return nil, err
	}
	if existente, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil && existente != nil && existente.ID != t.ID {
		return nil, fmt.Errorf("ya existe un tipo de identificacion llamado %s", existente.Nombre)
	}

	t.Nombre = strings.TrimSpace(req.Nombre)
	t.Abreviatura = req.Abreviatura
	t.Descripcion = req.Descripcion
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return tipoIdentificacionToResponse(t), nil
}

func (s *tipoIdentificacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("tipo de identificacion no encontrado")
	}
	return s.repo.Delete(ctx, id)
}

func tipoIdentificacionToResponse(t *model.TipoIdentificacion) *dto.TipoIdentificacionResponse {
	return &dto.TipoIdentificacionResponse{
		ID:          t.ID.String(),
		Nombre:      t.Nombre,
		Abreviatura: t.Abreviatura,
		Descripcion: t.Descripcion,
	}
}
