package handler

import (
	"net/http"

	"credipos/internal/apierror"
	"credipos/internal/dto"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReporteHandler struct {
	reportes service.ReporteService
}

func NewReporteHandler(reportes service.ReporteService) *ReporteHandler {
	return &ReporteHandler{reportes: reportes}
}

func (h *ReporteHandler) Ventas(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros de consulta invalidos"))
		return
	}
	resp, err := h.reportes.Ventas(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReporteHandler) Compras(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros de consulta invalidos"))
		return
	}
	resp, err := h.reportes.Compras(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReporteHandler) Dashboard(c *gin.Context) {
	resp, err := h.reportes.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
