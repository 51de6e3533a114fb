package handler

import (
	"fmt"
	"net/http"

	"credipos/internal/apierror"
	"credipos/internal/dto"
	"credipos/internal/infra"
	"credipos/internal/middleware"
	"credipos/internal/repository"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentaHandler struct {
	ventas    service.VentaService
	abonos    service.AbonoService
	ventaRepo repository.VentaRepository
}

func NewVentaHandler(ventas service.VentaService, abonos service.AbonoService, ventaRepo repository.VentaRepository) *VentaHandler {
	return &VentaHandler{ventas: ventas, abonos: abonos, ventaRepo: ventaRepo}
}

// Registrar godoc
// @Summary Registra una venta con sus pagos iniciales
// @Tags ventas
// @Router /v1/ventas [post]
func (h *VentaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID := usuarioAutenticado(c)
	resp, err := h.ventas.RegistrarVenta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentaHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros de consulta invalidos"))
		return
	}
	resp, err := h.ventas.ListVentas(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentaHandler) Detalle(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.ventas.DetalleVenta(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar cancels the sale, returns stock and records who did it and why.
func (h *VentaHandler) Eliminar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	motivo := c.Query("motivo")
	usuarioID := usuarioAutenticado(c)
	if err := h.ventas.EliminarVenta(c.Request.Context(), id, usuarioID, motivo); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Venta cancelada y stock restaurado"})
}

func (h *VentaHandler) RegistrarAbono(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.abonos.RegistrarAbono(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentaHandler) ListarAbonos(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.abonos.ListarAbonos(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoCuentaPDF streams the account statement of the sale.
func (h *VentaHandler) EstadoCuentaPDF(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	venta, err := h.ventaRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("venta no encontrada"))
		return
	}
	pagos, err := h.ventaRepo.ListPagos(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pdf, err := infra.GenerarEstadoCuentaPDF(infra.EstadoCuentaDeVenta(venta, pagos))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("no se pudo generar el PDF"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estado-cuenta-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// usuarioAutenticado extracts the caller's ID from the JWT claims.
func usuarioAutenticado(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UsuarioID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
