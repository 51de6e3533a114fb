package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credipos/internal/config"
	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrCredencialesInvalidas = errors.New("usuario o contraseña incorrectos")

// Claims travel inside the access token. Formularios is the explicit
// capability list (formulario URLs) so route guards compare exact keys
// instead of matching titles.
type Claims struct {
	UsuarioID   string   `json:"usuario_id"`
	Username    string   `json:"username"`
	Rol         string   `json:"rol"`
	Formularios []string `json:"formularios"`
	Refresh     bool     `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	ParseToken(tokenString string) (*Claims, error)

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	cfg            *config.Config
	usuarioRepo    repository.UsuarioRepository
	rolRepo        repository.RolRepository
	formularioRepo repository.FormularioRepository
}

func NewAuthService(
	cfg *config.Config,
	usuarioRepo repository.UsuarioRepository,
	rolRepo repository.RolRepository,
	formularioRepo repository.FormularioRepository,
) AuthService {
	return &authService{
		cfg:            cfg,
		usuarioRepo:    usuarioRepo,
		rolRepo:        rolRepo,
		formularioRepo: formularioRepo,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.usuarioRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if !usuario.Activo {
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}
	return s.emitirTokens(ctx, usuario)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return nil, errors.New("refresh token invalido")
	}
	if !claims.Refresh {
		return nil, errors.New("el token no es un refresh token")
	}
	uid, err := uuid.Parse(claims.UsuarioID)
	if err != nil {
		return nil, errors.New("refresh token invalido")
	}
	usuario, err := s.usuarioRepo.FindByID(ctx, uid)
	if err != nil || !usuario.Activo {
		return nil, errors.New("usuario no encontrado o inactivo")
	}
	return s.emitirTokens(ctx, usuario)
}

// emitirTokens builds the capability list from the user's role and signs the
// access/refresh pair. Permissions changed after emission take effect on the
// next login or refresh.
func (s *authService) emitirTokens(ctx context.Context, usuario *model.Usuario) (*dto.LoginResponse, error) {
	formularios, err := s.formularioRepo.ListByRol(ctx, usuario.RolID)
	if err != nil {
		return nil, err
	}

	capacidades := make([]string, 0, len(formularios))
	formsResp := make([]dto.FormularioResponse, 0, len(formularios))
	for _, f := range formularios {
		if f.URL != nil && *f.URL != "" {
			capacidades = append(capacidades, *f.URL)
		}
		formsResp = append(formsResp, *formularioToResponse(&f))
	}

	rol := ""
	if usuario.Rol != nil {
		rol = usuario.Rol.Nombre
	}

	ahora := time.Now()
	expAccess := ahora.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	expRefresh := ahora.Add(time.Duration(s.cfg.JWTRefreshHours) * time.Hour)

	access, err := s.firmar(Claims{
		UsuarioID:   usuario.ID.String(),
		Username:    usuario.Username,
		Rol:         rol,
		Formularios: capacidades,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usuario.ID.String(),
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(expAccess),
		},
	})
	if err != nil {
		return nil, err
	}
	refresh, err := s.firmar(Claims{
		UsuarioID: usuario.ID.String(),
		Username:  usuario.Username,
		Refresh:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usuario.ID.String(),
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(expRefresh),
		},
	})
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(expAccess.Sub(ahora).Seconds()),
		User:         *usuarioToResponse(usuario),
		Formularios:  formsResp,
	}, nil
}

func (s *authService) firmar(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("metodo de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token invalido")
	}
	return claims, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if existente, err := s.usuarioRepo.FindByUsername(ctx, req.Username); err == nil && existente != nil {
		return nil, fmt.Errorf("el username %s ya esta en uso", req.Username)
	}
	rolID, err := uuid.Parse(req.RolID)
	if err != nil {
		return nil, errors.New("id_rol invalido")
	}
	if _, err := s.rolRepo.FindByID(ctx, rolID); err != nil {
		return nil, errors.New("rol no encontrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usuario := model.Usuario{
		Username:       req.Username,
		Nombre:         req.Nombre,
		Email:          req.Email,
		Identificacion: req.Identificacion,
		PasswordHash:   string(hash),
		RolID:          rolID,
		Activo:         true,
	}
	if req.TipoIdentificacionID != nil {
		tid, err := uuid.Parse(*req.TipoIdentificacionID)
		if err != nil {
			return nil, errors.New("id_tipo_identificacion invalido")
		}
		usuario.TipoIdentificacionID = &tid
	}

	if err := s.usuarioRepo.Create(ctx, &usuario); err != nil {
		return nil, err
	}
	creado, err := s.usuarioRepo.FindByID(ctx, usuario.ID)
	if err != nil {
		return usuarioToResponse(&usuario), nil
	}
	return usuarioToResponse(creado), nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.usuarioRepo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, *usuarioToResponse(&u))
	}
	return out, nil
}

func (s *authService) EliminarUsuario(ctx context.Context, id uuid.UUID) error {
	usuario, err := s.usuarioRepo.FindByID(ctx, id)
	if err != nil {
		return errors.New("usuario no encontrado")
	}
	if !usuario.Activo {
		return errors.New("el usuario ya fue desactivado")
	}
	if usuario.Rol != nil && usuario.Rol.Nombre == rolProtegido {
		n, err := s.contarAdministradoresActivos(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return errors.New("no puede desactivarse el ultimo administrador")
		}
	}
	return s.usuarioRepo.SoftDelete(ctx, id)
}

func (s *authService) contarAdministradoresActivos(ctx context.Context) (int, error) {
	usuarios, err := s.usuarioRepo.List(ctx, false)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, u := range usuarios {
		if u.Rol != nil && u.Rol.Nombre == rolProtegido {
			n++
		}
	}
	return n, nil
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	rol := ""
	if u.Rol != nil {
		rol = u.Rol.Nombre
	}
	return &dto.UsuarioResponse{
		ID:             u.ID.String(),
		Username:       u.Username,
		Nombre:         u.Nombre,
		Email:          u.Email,
		Identificacion: u.Identificacion,
		Rol:            rol,
		Activo:         u.Activo,
	}
}
