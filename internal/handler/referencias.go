package handler

import (
	"net/http"

	"credipos/internal/dto"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
)

// ReferenciaHandler groups the CRUD of the small reference entities: payment
// methods, roles and identification types.
type ReferenciaHandler struct {
	metodos service.MetodoPagoService
	roles   service.RolService
	tipos   service.TipoIdentificacionService
}

func NewReferenciaHandler(
	metodos service.MetodoPagoService,
	roles service.RolService,
	tipos service.TipoIdentificacionService,
) *ReferenciaHandler {
	return &ReferenciaHandler{metodos: metodos, roles: roles, tipos: tipos}
}

func (h *ReferenciaHandler) CrearMetodoPago(c *gin.Context) {
	var req dto.CrearMetodoPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.metodos.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciaHandler) ListarMetodosPago(c *gin.Context) {
	resp, err := h.metodos.Listar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciaHandler) ActualizarMetodoPago(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CrearMetodoPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.metodos.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciaHandler) EliminarMetodoPago(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.metodos.Eliminar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Metodo de pago eliminado"})
}

func (h *ReferenciaHandler) CrearRol(c *gin.Context) {
	var req dto.CrearRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.roles.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciaHandler) ListarRoles(c *gin.Context) {
	resp, err := h.roles.Listar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciaHandler) ActualizarRol(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CrearRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.roles.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciaHandler) EliminarRol(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.roles.Eliminar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Rol eliminado"})
}

func (h *ReferenciaHandler) CrearTipoIdentificacion(c *gin.Context) {
	var req dto.CrearTipoIdentificacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tipos.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciaHandler) ListarTiposIdentificacion(c *gin.Context) {
	resp, err := h.tipos.Listar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciaHandler) ActualizarTipoIdentificacion(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CrearTipoIdentificacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tipos.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciaHandler) EliminarTipoIdentificacion(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.tipos.Eliminar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Tipo de identificacion eliminado"})
}
