package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"credipos/internal/config"
	"credipos/internal/infra"
	"credipos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificacionHandler renders the account statement of a settled credit sale
// and mails it. The PDF also lands on disk so it can be re-sent without
// regenerating.
type NotificacionHandler struct {
	cfg       *config.Config
	ventaRepo repository.VentaRepository
	mailer    infra.Mailer
}

func NewNotificacionHandler(cfg *config.Config, ventaRepo repository.VentaRepository, mailer infra.Mailer) *NotificacionHandler {
	return &NotificacionHandler{cfg: cfg, ventaRepo: ventaRepo, mailer: mailer}
}

func (h *NotificacionHandler) Procesar(ctx context.Context, payload NotificacionPayload) error {
	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("venta_id ilegible: %w", err)
	}
	venta, err := h.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return fmt.Errorf("cargando venta %s: %w", payload.VentaID, err)
	}
	pagos, err := h.ventaRepo.ListPagos(ctx, ventaID)
	if err != nil {
		return fmt.Errorf("cargando pagos de %s: %w", payload.VentaID, err)
	}

	pdf, err := infra.GenerarEstadoCuentaPDF(infra.EstadoCuentaDeVenta(venta, pagos))
	if err != nil {
		return fmt.Errorf("generando PDF de %s: %w", payload.VentaID, err)
	}

	nombre := fmt.Sprintf("estado-cuenta-%s.pdf", payload.VentaID)
	if h.cfg.PDFStoragePath != "" {
		if err := os.MkdirAll(h.cfg.PDFStoragePath, 0o755); err == nil {
			ruta := filepath.Join(h.cfg.PDFStoragePath, nombre)
			if err := os.WriteFile(ruta, pdf, 0o644); err != nil {
				log.Warn().Err(err).Str("ruta", ruta).Msg("no se pudo guardar el PDF")
			}
		}
	}

	if h.cfg.NotificacionEmail == "" {
		log.Debug().Str("venta_id", payload.VentaID).Msg("sin destinatario configurado, se omite el correo")
		return nil
	}

	cliente := ""
	if venta.ClienteDesc != nil {
		cliente = *venta.ClienteDesc
	}
	asunto := fmt.Sprintf("Venta saldada: %s", cliente)
	cuerpo := fmt.Sprintf(
		"La venta %s quedo totalmente pagada.\n\nCliente: %s\nTotal: %s\n\nSe adjunta el estado de cuenta.",
		payload.VentaID, cliente, venta.Total.StringFixed(2),
	)
	return h.mailer.Enviar(h.cfg.NotificacionEmail, asunto, cuerpo, pdf, nombre)
}
