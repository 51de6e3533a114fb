package service

import (
	"context"
	"testing"

	"credipos/internal/dto"
	"credipos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubFormularioRepo struct {
	formularios map[uuid.UUID]*model.Formulario
}

func (r *stubFormularioRepo) List(ctx context.Context) ([]model.Formulario, error) {
	var out []model.Formulario
	for _, f := range r.formularios {
		out = append(out, *f)
	}
	return out, nil
}

func (r *stubFormularioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Formulario, error) {
	f, ok := r.formularios[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return f, nil
}

func (r *stubFormularioRepo) ListByRol(ctx context.Context, rolID uuid.UUID) ([]model.Formulario, error) {
	return nil, nil
}

type stubPermisoRepo struct {
	formularios *stubFormularioRepo
	permisos    map[uuid.UUID]map[uuid.UUID]bool // rol → formulario
}

func newStubPermisoRepo(formularios *stubFormularioRepo) *stubPermisoRepo {
	return &stubPermisoRepo{
		formularios: formularios,
		permisos:    make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *stubPermisoRepo) Create(ctx context.Context, p *model.Permiso) error {
	if r.permisos[p.RolID] == nil {
		r.permisos[p.RolID] = make(map[uuid.UUID]bool)
	}
	r.permisos[p.RolID][p.FormularioID] = true
	return nil
}

func (r *stubPermisoRepo) Exists(ctx context.Context, rolID, formularioID uuid.UUID) (bool, error) {
	return r.permisos[rolID][formularioID], nil
}

func (r *stubPermisoRepo) List(ctx context.Context) ([]model.Permiso, error) {
	var out []model.Permiso
	for rolID, forms := range r.permisos {
		for fid := range forms {
			out = append(out, model.Permiso{RolID: rolID, FormularioID: fid})
		}
	}
	return out, nil
}

func (r *stubPermisoRepo) Delete(ctx context.Context, rolID, formularioID uuid.UUID) (int64, error) {
	if r.permisos[rolID][formularioID] {
		delete(r.permisos[rolID], formularioID)
		return 1, nil
	}
	return 0, nil
}

func (r *stubPermisoRepo) DeleteHijos(ctx context.Context, rolID, padreID uuid.UUID) (int64, error) {
	var n int64
	for fid := range r.permisos[rolID] {
		f, ok := r.formularios.formularios[fid]
		if ok && f.PadreID != nil && *f.PadreID == padreID {
			delete(r.permisos[rolID], fid)
			n++
		}
	}
	return n, nil
}

func (r *stubPermisoRepo) DeleteByRol(ctx context.Context, rolID uuid.UUID) (int64, error) {
	n := int64(len(r.permisos[rolID]))
	delete(r.permisos, rolID)
	return n, nil
}

type stubRolRepo struct {
	roles    map[uuid.UUID]*model.Rol
	usuarios map[uuid.UUID]int64
}

func newStubRolRepo(roles ...*model.Rol) *stubRolRepo {
	r := &stubRolRepo{roles: make(map[uuid.UUID]*model.Rol), usuarios: make(map[uuid.UUID]int64)}
	for _, rol := range roles {
		if rol.ID == uuid.Nil {
			rol.ID = uuid.New()
		}
		r.roles[rol.ID] = rol
	}
	return r
}

func (r *stubRolRepo) Create(ctx context.Context, m *model.Rol) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.roles[m.ID] = m
	return nil
}

func (r *stubRolRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error) {
	rol, ok := r.roles[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return rol, nil
}

func (r *stubRolRepo) FindByNombre(ctx context.Context, nombre string) (*model.Rol, error) {
	for _, rol := range r.roles {
		if rol.Nombre == nombre {
			return rol, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var out []model.Rol
	for _, rol := range r.roles {
		out = append(out, *rol)
	}
	return out, nil
}

func (r *stubRolRepo) Update(ctx context.Context, m *model.Rol) error {
	r.roles[m.ID] = m
	return nil
}

func (r *stubRolRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.roles, id)
	return nil
}

func (r *stubRolRepo) CountUsuarios(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.usuarios[id], nil
}

type permisoFixture struct {
	svc       PermisoService
	permisos  *stubPermisoRepo
	rol       *model.Rol
	padre     *model.Formulario
	hijo      *model.Formulario
	sinPadre  *model.Formulario
}

func newPermisoFixture() *permisoFixture {
	padre := &model.Formulario{ID: uuid.New(), Titulo: "Administracion", IsPadre: true}
	hijo := &model.Formulario{ID: uuid.New(), Titulo: "Usuarios", PadreID: &padre.ID}
	sinPadre := &model.Formulario{ID: uuid.New(), Titulo: "Ventas"}

	formularios := &stubFormularioRepo{formularios: map[uuid.UUID]*model.Formulario{
		padre.ID:    padre,
		hijo.ID:     hijo,
		sinPadre.ID: sinPadre,
	}}
	permisos := newStubPermisoRepo(formularios)
	rol := &model.Rol{Nombre: "cajero"}
	roles := newStubRolRepo(rol)

	return &permisoFixture{
		svc:      NewPermisoService(permisos, formularios, roles),
		permisos: permisos,
		rol:      rol,
		padre:    padre,
		hijo:     hijo,
		sinPadre: sinPadre,
	}
}

func TestAsignarPermiso(t *testing.T) {
	ctx := context.Background()

	t.Run("asignar un hijo arrastra al padre", func(t *testing.T) {
		f := newPermisoFixture()
		_, err := f.svc.Asignar(ctx, dto.AsignarPermisoRequest{
			RolID:        f.rol.ID.String(),
			FormularioID: f.hijo.ID.String(),
		})
		require.NoError(t, err)
		assert.True(t, f.permisos.permisos[f.rol.ID][f.hijo.ID])
		assert.True(t, f.permisos.permisos[f.rol.ID][f.padre.ID])
	})

	t.Run("asignar dos veces no duplica", func(t *testing.T) {
		f := newPermisoFixture()
		req := dto.AsignarPermisoRequest{
			RolID:        f.rol.ID.String(),
			FormularioID: f.sinPadre.ID.String(),
		}
		_, err := f.svc.Asignar(ctx, req)
		require.NoError(t, err)
		resp, err := f.svc.Asignar(ctx, req)
		require.NoError(t, err)
		assert.Contains(t, resp.Message, "ya estaba")
	})

	t.Run("bulk reporta asignados, existentes y padres", func(t *testing.T) {
		f := newPermisoFixture()
		_, err := f.svc.Asignar(ctx, dto.AsignarPermisoRequest{
			RolID:        f.rol.ID.String(),
			FormularioID: f.sinPadre.ID.String(),
		})
		require.NoError(t, err)

		resp, err := f.svc.AsignarBulk(ctx, dto.AsignarPermisosBulkRequest{
			RolID:         f.rol.ID.String(),
			FormularioIDs: []string{f.sinPadre.ID.String(), f.hijo.ID.String()},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Asignados)
		assert.Equal(t, 1, resp.YaExistian)
		assert.Equal(t, 1, resp.PadresAsignados)
	})
}

func TestRemoverPermiso(t *testing.T) {
	ctx := context.Background()

	t.Run("remover un padre cae en cascada sobre los hijos", func(t *testing.T) {
		f := newPermisoFixture()
		_, err := f.svc.Asignar(ctx, dto.AsignarPermisoRequest{
			RolID:        f.rol.ID.String(),
			FormularioID: f.hijo.ID.String(),
		})
		require.NoError(t, err)

		resp, err := f.svc.Remover(ctx, f.rol.ID, f.padre.ID)
		require.NoError(t, err)
		assert.Contains(t, resp.Message, "2")
		assert.False(t, f.permisos.permisos[f.rol.ID][f.hijo.ID])
		assert.False(t, f.permisos.permisos[f.rol.ID][f.padre.ID])
	})

	t.Run("remover un permiso inexistente falla", func(t *testing.T) {
		f := newPermisoFixture()
		_, err := f.svc.Remover(ctx, f.rol.ID, f.sinPadre.ID)
		require.Error(t, err)
	})
}

func TestRolProtegido(t *testing.T) {
	ctx := context.Background()
	admin := &model.Rol{Nombre: "administrador"}
	roles := newStubRolRepo(admin)
	formularios := &stubFormularioRepo{formularios: map[uuid.UUID]*model.Formulario{}}
	permisos := newStubPermisoRepo(formularios)
	svc := NewRolService(roles, permisos)

	t.Run("no puede renombrarse", func(t *testing.T) {
		_, err := svc.Actualizar(ctx, admin.ID, dto.CrearRolRequest{Nombre: "superusuario"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no puede renombrarse")
	})

	t.Run("no puede eliminarse", func(t *testing.T) {
		err := svc.Eliminar(ctx, admin.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no puede eliminarse")
	})

	t.Run("un rol con usuarios no puede eliminarse", func(t *testing.T) {
		cajero := &model.Rol{Nombre: "cajero"}
		require.NoError(t, roles.Create(ctx, cajero))
		roles.usuarios[cajero.ID] = 2
		err := svc.Eliminar(ctx, cajero.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usuarios asignados")
	})
}
