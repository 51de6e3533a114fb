package handler

import (
	"net/http"

	"credipos/internal/dto"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
)

type PermisoHandler struct {
	permisos service.PermisoService
}

func NewPermisoHandler(permisos service.PermisoService) *PermisoHandler {
	return &PermisoHandler{permisos: permisos}
}

func (h *PermisoHandler) ListarFormularios(c *gin.Context) {
	resp, err := h.permisos.ListarFormularios(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PermisoHandler) Listar(c *gin.Context) {
	resp, err := h.permisos.ListarPermisos(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PermisoHandler) ListarPorRol(c *gin.Context) {
	rolID, ok := parseUUIDParam(c, "rolId")
	if !ok {
		return
	}
	resp, err := h.permisos.ListarPorRol(c.Request.Context(), rolID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PermisoHandler) Asignar(c *gin.Context) {
	var req dto.AsignarPermisoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.permisos.Asignar(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PermisoHandler) AsignarBulk(c *gin.Context) {
	var req dto.AsignarPermisosBulkRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.permisos.AsignarBulk(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PermisoHandler) Remover(c *gin.Context) {
	rolID, ok := parseUUIDParam(c, "rolId")
	if !ok {
		return
	}
	formularioID, ok := parseUUIDParam(c, "formularioId")
	if !ok {
		return
	}
	resp, err := h.permisos.Remover(c.Request.Context(), rolID, formularioID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PermisoHandler) RemoverPorRol(c *gin.Context) {
	rolID, ok := parseUUIDParam(c, "rolId")
	if !ok {
		return
	}
	resp, err := h.permisos.RemoverPorRol(c.Request.Context(), rolID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
