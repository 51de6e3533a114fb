package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/google/uuid"
)

// nombreValido is the shared constraint for reference-entity names: letters
// with accents, spaces, dots and hyphens.
var nombreValido = regexp.MustCompile(`^[\p{L} .\-]+$`)

func validarNombreReferencia(nombre string) error {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return errors.New("el nombre es obligatorio")
	}
	if !nombreValido.MatchString(nombre) {
		return errors.New("el nombre solo admite letras, espacios, puntos y guiones")
	}
	return nil
}

type MetodoPagoService interface {
	Crear(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error)
	Listar(ctx context.Context) ([]dto.MetodoPagoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type metodoPagoService struct {
	repo repository.MetodoPagoRepository
}

func NewMetodoPagoService(repo repository.MetodoPagoRepository) MetodoPagoService {
	return &metodoPagoService{repo: repo}
}

func (s *metodoPagoService) Crear(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error) {
	if err := validarNombreReferencia(req.Nombre); err != nil {
		return nil, err
	}
	if existente, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un metodo de pago llamado %s", existente.Nombre)
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}
	m := model.MetodoPago{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Activo:      activo,
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, err
	}
	return metodoPagoToResponse(&m), nil
}

func (s *metodoPagoService) Listar(ctx context.Context) ([]dto.MetodoPagoResponse, error) {
	metodos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MetodoPagoResponse, 0, len(metodos))
	for _, m := range metodos {
		out = append(out, *metodoPagoToResponse(&m))
	}
	return out, nil
}

func (s *metodoPagoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("metodo de pago no encontrado")
	}
	if err := validarNombreReferencia(req.Nombre); err != nil {
		return nil, err
	}
	if existente, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil && existente != nil && existente.ID != m.ID {
		return nil, fmt.Errorf("ya existe un metodo de pago llamado %s", existente.Nombre)
	}

	m.Nombre = strings.TrimSpace(req.Nombre)
	m.Descripcion = req.Descripcion
	if req.Activo != nil {
		m.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return metodoPagoToResponse(m), nil
}

func (s *metodoPagoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("metodo de pago no encontrado")
	}
	if !m.Activo {
		return errors.New("el metodo de pago ya fue eliminado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func metodoPagoToResponse(m *model.MetodoPago) *dto.MetodoPagoResponse {
	return &dto.MetodoPagoResponse{
		ID:          m.ID.String(),
		Nombre:      m.Nombre,
		Descripcion: m.Descripcion,
		Activo:      m.Activo,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
