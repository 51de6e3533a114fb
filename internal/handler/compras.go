package handler

import (
	"net/http"

	"credipos/internal/dto"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
)

type CompraHandler struct {
	compras service.CompraService
}

func NewCompraHandler(compras service.CompraService) *CompraHandler {
	return &CompraHandler{compras: compras}
}

func (h *CompraHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.compras.RegistrarCompra(c.Request.Context(), usuarioAutenticado(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CompraHandler) Listar(c *gin.Context) {
	incluirEliminadas := c.Query("incluir_eliminadas") == "true"
	resp, err := h.compras.ListCompras(c.Request.Context(), incluirEliminadas)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompraHandler) Detalle(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.compras.DetalleCompra(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompraHandler) Actualizar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.compras.ActualizarCompra(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompraHandler) Eliminar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.compras.EliminarCompra(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Compra anulada y stock revertido"})
}
