package dto

// DTOs for the reference entities: payment methods, roles, identification
// types, forms and role-form permissions. Every mutation returns {message}.

// nombrePattern documents the shared name constraint: letters (including
// accents), spaces, hyphens and dots. Enforced in the services since
// validator has no built-in tag for it.

type CrearMetodoPagoRequest struct {
	Nombre      string  `json:"nombre_metodo_pago"      validate:"required,max=100"`
	Descripcion *string `json:"descripcion_metodo_pago" validate:"omitempty,max=200"`
	Activo      *bool   `json:"activo"`
}

type MetodoPagoResponse struct {
	ID          string  `json:"id_metodo_pago"`
	Nombre      string  `json:"nombre_metodo_pago"`
	Descripcion *string `json:"descripcion_metodo_pago,omitempty"`
	Activo      bool    `json:"activo"`
	CreatedAt   string  `json:"creado_en"`
}

type CrearRolRequest struct {
	Nombre      string  `json:"nombre_rol"      validate:"required,max=100"`
	Descripcion *string `json:"descripcion_rol" validate:"omitempty,max=200"`
}

type RolResponse struct {
	ID          string  `json:"id_rol"`
	Nombre      string  `json:"nombre_rol"`
	Descripcion *string `json:"descripcion_rol,omitempty"`
}

type CrearTipoIdentificacionRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,max=100"`
	Abreviatura *string `json:"abreviatura" validate:"omitempty,max=10"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=200"`
}

type TipoIdentificacionResponse struct {
	ID          string  `json:"id_tipo_identificacion"`
	Nombre      string  `json:"nombre"`
	Abreviatura *string `json:"abreviatura,omitempty"`
	Descripcion *string `json:"descripcion,omitempty"`
}

type FormularioResponse struct {
	ID      string  `json:"id_formulario"`
	Titulo  string  `json:"titulo_formulario"`
	URL     *string `json:"url_formulario,omitempty"`
	PadreID *string `json:"padre_id,omitempty"`
	IsPadre bool    `json:"is_padre"`
	Orden   int     `json:"orden_formulario"`
}

type PermisoResponse struct {
	RolID        string  `json:"id_rol"`
	NombreRol    string  `json:"nombre_rol"`
	FormularioID string  `json:"id_formulario"`
	Titulo       string  `json:"titulo_formulario"`
	IsPadre      bool    `json:"is_padre"`
	PadreID      *string `json:"padre_id,omitempty"`
}

type AsignarPermisoRequest struct {
	RolID        string `json:"id_rol"        validate:"required,uuid"`
	FormularioID string `json:"id_formulario" validate:"required,uuid"`
}

type AsignarPermisosBulkRequest struct {
	RolID         string   `json:"id_rol"         validate:"required,uuid"`
	FormularioIDs []string `json:"id_formularios" validate:"required,min=1,dive,uuid"`
}

type AsignarPermisosBulkResponse struct {
	Message         string `json:"message"`
	Asignados       int    `json:"asignados"`
	YaExistian      int    `json:"yaExistian"`
	PadresAsignados int    `json:"padresAsignados"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
