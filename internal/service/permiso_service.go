package service

import (
	"context"
	"errors"
	"fmt"

	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/google/uuid"
)

// PermisoService manages the rol ↔ formulario assignments that drive the
// capability list handed out at login. Assigning a child form pulls its
// parent in automatically so the menu tree never has unreachable leaves;
// unassigning a parent cascades to its children for the same reason.
type PermisoService interface {
	ListarFormularios(ctx context.Context) ([]dto.FormularioResponse, error)
	ListarPermisos(ctx context.Context) ([]dto.PermisoResponse, error)
	ListarPorRol(ctx context.Context, rolID uuid.UUID) ([]dto.FormularioResponse, error)
	Asignar(ctx context.Context, req dto.AsignarPermisoRequest) (*dto.MessageResponse, error)
	AsignarBulk(ctx context.Context, req dto.AsignarPermisosBulkRequest) (*dto.AsignarPermisosBulkResponse, error)
	Remover(ctx context.Context, rolID, formularioID uuid.UUID) (*dto.MessageResponse, error)
	RemoverPorRol(ctx context.Context, rolID uuid.UUID) (*dto.MessageResponse, error)
}

type permisoService struct {
	repo           repository.PermisoRepository
	formularioRepo repository.FormularioRepository
	rolRepo        repository.RolRepository
}

func NewPermisoService(
	repo repository.PermisoRepository,
	formularioRepo repository.FormularioRepository,
	rolRepo repository.RolRepository,
) PermisoService {
	return &permisoService{repo: repo, formularioRepo: formularioRepo, rolRepo: rolRepo}
}

func (s *permisoService) ListarFormularios(ctx context.Context) ([]dto.FormularioResponse, error) {
	forms, err := s.formularioRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FormularioResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, *formularioToResponse(&f))
	}
	return out, nil
}

func (s *permisoService) ListarPermisos(ctx context.Context) ([]dto.PermisoResponse, error) {
	permisos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermisoResponse, 0, len(permisos))
	for _, p := range permisos {
		item := dto.PermisoResponse{
			RolID:        p.RolID.String(),
			FormularioID: p.FormularioID.String(),
		}
		if p.Rol != nil {
			item.NombreRol = p.Rol.Nombre
		}
		if p.Formulario != nil {
			item.Titulo = p.Formulario.Titulo
			item.IsPadre = p.Formulario.IsPadre
			if p.Formulario.PadreID != nil {
				padre := p.Formulario.PadreID.String()
				item.PadreID = &padre
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ListarPorRol returns the formularios granted to one role, the same list
// the login response embeds.
func (s *permisoService) ListarPorRol(ctx context.Context, rolID uuid.UUID) ([]dto.FormularioResponse, error) {
	if _, err := s.rolRepo.FindByID(ctx, rolID); err != nil {
		return nil, errors.New("rol no encontrado")
	}
	forms, err := s.formularioRepo.ListByRol(ctx, rolID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FormularioResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, *formularioToResponse(&f))
	}
	return out, nil
}

// asignarUno creates the permission if missing and returns whether it was
// created plus whether a parent had to be auto-assigned.
func (s *permisoService) asignarUno(ctx context.Context, rolID uuid.UUID, form *model.Formulario) (creado, padreCreado bool, err error) {
	if form.PadreID != nil {
		existePadre, err := s.repo.Exists(ctx, rolID, *form.PadreID)
		if err != nil {
			return false, false, err
		}
		if !existePadre {
			if err := s.repo.Create(ctx, &model.Permiso{RolID: rolID, FormularioID: *form.PadreID}); err != nil {
				return false, false, err
			}
			padreCreado = true
		}
	}

	existe, err := s.repo.Exists(ctx, rolID, form.ID)
	if err != nil {
		return false, padreCreado, err
	}
	if existe {
		return false, padreCreado, nil
	}
	if err := s.repo.Create(ctx, &model.Permiso{RolID: rolID, FormularioID: form.ID}); err != nil {
		return false, padreCreado, err
	}
	return true, padreCreado, nil
}

func (s *permisoService) Asignar(ctx context.Context, req dto.AsignarPermisoRequest) (*dto.MessageResponse, error) {
	rolID, err := uuid.Parse(req.RolID)
	if err != nil {
		return nil, errors.New("id_rol invalido")
	}
	formularioID, err := uuid.Parse(req.FormularioID)
	if err != nil {
		return nil, errors.New("id_formulario invalido")
	}
	if _, err := s.rolRepo.FindByID(ctx, rolID); err != nil {
		return nil, errors.New("rol no encontrado")
	}
	form, err := s.formularioRepo.FindByID(ctx, formularioID)
	if err != nil {
		return nil, errors.New("formulario no encontrado")
	}

	creado, _, err := s.asignarUno(ctx, rolID, form)
	if err != nil {
		return nil, err
	}
	if !creado {
		return &dto.MessageResponse{Message: "El permiso ya estaba asignado"}, nil
	}
	return &dto.MessageResponse{Message: "Permiso asignado correctamente"}, nil
}

func (s *permisoService) AsignarBulk(ctx context.Context, req dto.AsignarPermisosBulkRequest) (*dto.AsignarPermisosBulkResponse, error) {
	rolID, err := uuid.Parse(req.RolID)
	if err != nil {
		return nil, errors.New("id_rol invalido")
	}
	if _, err := s.rolRepo.FindByID(ctx, rolID); err != nil {
		return nil, errors.New("rol no encontrado")
	}

	resp := &dto.AsignarPermisosBulkResponse{}
	for _, fid := range req.FormularioIDs {
		formularioID, err := uuid.Parse(fid)
		if err != nil {
			return nil, fmt.Errorf("id_formulario invalido: %s", fid)
		}
		form, err := s.formularioRepo.FindByID(ctx, formularioID)
		if err != nil {
			return nil, fmt.Errorf("formulario %s no encontrado", fid)
		}
		creado, padreCreado, err := s.asignarUno(ctx, rolID, form)
		if err != nil {
			return nil, err
		}
		if creado {
			resp.Asignados++
		} else {
			resp.YaExistian++
		}
		if padreCreado {
			resp.PadresAsignados++
		}
	}
	resp.Message = fmt.Sprintf("%d permisos asignados", resp.Asignados)
	return resp, nil
}

func (s *permisoService) Remover(ctx context.Context, rolID, formularioID uuid.UUID) (*dto.MessageResponse, error) {
	form, err := s.formularioRepo.FindByID(ctx, formularioID)
	if err != nil {
		return nil, errors.New("formulario no encontrado")
	}

	removidos := int64(0)
	if form.IsPadre {
		n, err := s.repo.DeleteHijos(ctx, rolID, form.ID)
		if err != nil {
			return nil, err
		}
		removidos += n
	}
	n, err := s.repo.Delete(ctx, rolID, formularioID)
	if err != nil {
		return nil, err
	}
	removidos += n

	if removidos == 0 {
		return nil, errors.New("el permiso no existe")
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("%d permisos removidos", removidos)}, nil
}

// RemoverPorRol wipes every permission of one role in a single pass, used
// when a role is being repurposed.
func (s *permisoService) RemoverPorRol(ctx context.Context, rolID uuid.UUID) (*dto.MessageResponse, error) {
	if _, err := s.rolRepo.FindByID(ctx, rolID); err != nil {
		return nil, errors.New("rol no encontrado")
	}
	n, err := s.repo.DeleteByRol(ctx, rolID)
	if err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("%d permisos removidos", n)}, nil
}

func formularioToResponse(f *model.Formulario) *dto.FormularioResponse {
	var padre *string
	if f.PadreID != nil {
		p := f.PadreID.String()
		padre = &p
	}
	return &dto.FormularioResponse{
		ID:      f.ID.String(),
		Titulo:  f.Titulo,
		URL:     f.URL,
		PadreID: padre,
		IsPadre: f.IsPadre,
		Orden:   f.Orden,
	}
}
