package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UsuarioResponse struct {
	ID             string  `json:"id_usuario"`
	Username       string  `json:"username"`
	Nombre         string  `json:"nombre"`
	Email          *string `json:"email,omitempty"`
	Identificacion *string `json:"identificacion,omitempty"`
	Rol            string  `json:"rol"`
	Activo         bool    `json:"activo"`
}

// LoginResponse carries the explicit capability list (Formularios) so
// clients build navigation from exact keys instead of matching titles.
type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	TokenType    string               `json:"token_type"`
	ExpiresIn    int                  `json:"expires_in"`
	User         UsuarioResponse      `json:"user"`
	Formularios  []FormularioResponse `json:"formularios"`
}

type CrearUsuarioRequest struct {
	Username             string  `json:"username"  validate:"required,max=50"`
	Nombre               string  `json:"nombre"    validate:"required,max=150"`
	Email                *string `json:"email"     validate:"omitempty,email"`
	Identificacion       *string `json:"identificacion" validate:"omitempty,max=30"`
	TipoIdentificacionID *string `json:"id_tipo_identificacion" validate:"omitempty,uuid"`
	Password             string  `json:"password"  validate:"required,min=8"`
	RolID                string  `json:"id_rol"    validate:"required,uuid"`
}
