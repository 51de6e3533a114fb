package service

import (
	"context"
	"errors"
	"fmt"

	"credipos/internal/dto"
	"credipos/internal/model"
	"credipos/internal/repository"
	"credipos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"time"
)

// AbonoService owns the append-only payment ledger of credit sales.
type AbonoService interface {
	RegistrarAbono(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarAbonoRequest) (*dto.RegistrarAbonoResponse, error)
	ListarAbonos(ctx context.Context, ventaID uuid.UUID) (*dto.ListarAbonosResponse, error)
}

type abonoService struct {
	repo       repository.VentaRepository
	metodoRepo repository.MetodoPagoRepository
	dispatcher *worker.Dispatcher
}

func NewAbonoService(
	repo repository.VentaRepository,
	metodoRepo repository.MetodoPagoRepository,
	dispatcher *worker.Dispatcher,
) AbonoService {
	return &abonoService{repo: repo, metodoRepo: metodoRepo, dispatcher: dispatcher}
}

// RegistrarAbono appends one payment to the sale's ledger inside a single
// transaction. The venta row is locked FOR UPDATE so two concurrent abonos
// cannot both read the same saldo and jointly overdraw it. A rejected abono
// never touches the ledger.
func (s *abonoService) RegistrarAbono(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarAbonoRequest) (*dto.RegistrarAbonoResponse, error) {
	metodoID, err := uuid.Parse(req.MetodoPagoID)
	if err != nil {
		return nil, errors.New("id_metodo_pago invalido")
	}
	metodo, err := s.metodoRepo.FindByID(ctx, metodoID)
	if err != nil {
		return nil, errors.New("metodo de pago no encontrado")
	}
	if !metodo.Activo {
		return nil, fmt.Errorf("el metodo de pago %s esta inactivo", metodo.Nombre)
	}
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto debe ser mayor a cero")
	}

	var pago model.VentaPago
	var saldoNuevo decimal.Decimal
	var estadoNuevo string

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindByIDForUpdate(ctx, tx, ventaID)
		if err != nil {
			return errors.New("venta no encontrada")
		}
		if !venta.Activo || venta.Estado == model.VentaCancelada {
			return errors.New("no se pueden registrar abonos sobre una venta cancelada")
		}
		if venta.Estado == model.VentaPagada {
			return errors.New("la venta ya esta pagada")
		}
		if req.Monto.GreaterThan(venta.SaldoPendiente) {
			return fmt.Errorf("el monto excede el saldo pendiente (%s)", venta.SaldoPendiente.StringFixed(0))
		}

		pago = model.VentaPago{
			VentaID:       venta.ID,
			MetodoPagoID:  metodoID,
			Monto:         req.Monto,
			Observaciones: req.Observaciones,
			FechaPago:     time.Now(),
		}
		if err := s.repo.CreatePagoTx(tx, &pago); err != nil {
			return err
		}

		saldoNuevo = venta.SaldoPendiente.Sub(req.Monto)
		estadoNuevo = model.VentaPendiente
		if saldoNuevo.IsZero() {
			estadoNuevo = model.VentaPagada
		}
		return s.repo.UpdateSaldoTx(tx, venta.ID, saldoNuevo, estadoNuevo)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Settled: fire the async notification (best effort, never blocks the
	// response).
	if estadoNuevo == model.VentaPagada && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionPayload{
			VentaID: ventaID.String(),
		})
	}

	resp := &dto.RegistrarAbonoResponse{
		Message: fmt.Sprintf("Abono registrado. Saldo restante: %s", saldoNuevo.StringFixed(0)),
		Abono: dto.AbonoResponse{
			ID:            pago.ID.String(),
			FechaPago:     pago.FechaPago.Format("2006-01-02T15:04:05Z"),
			Monto:         pago.Monto,
			MetodoPago:    metodo.Nombre,
			Observaciones: pago.Observaciones,
		},
	}
	resp.Venta.SaldoNuevo = saldoNuevo
	resp.Venta.Estado = estadoNuevo
	return resp, nil
}

// ListarAbonos returns the ledger in timestamp order together with a balance
// snapshot recomputed from the ledger itself.
func (s *abonoService) ListarAbonos(ctx context.Context, ventaID uuid.UUID) (*dto.ListarAbonosResponse, error) {
	venta, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	pagos, err := s.repo.ListPagos(ctx, ventaID)
	if err != nil {
		return nil, err
	}

	abonos := make([]dto.AbonoResponse, 0, len(pagos))
	for _, p := range pagos {
		metodo := ""
		if p.MetodoPago != nil {
			metodo = p.MetodoPago.Nombre
		}
		abonos = append(abonos, dto.AbonoResponse{
			ID:            p.ID.String(),
			FechaPago:     p.FechaPago.Format("2006-01-02T15:04:05Z"),
			Monto:         p.Monto,
			MetodoPago:    metodo,
			Observaciones: p.Observaciones,
		})
	}

	saldo := CalcularSaldo(venta.Total, pagos)
	estado := saldo.Estado
	if !venta.Activo {
		estado = model.VentaCancelada
	}

	return &dto.ListarAbonosResponse{
		OK:     true,
		Total:  len(abonos),
		Abonos: abonos,
		Venta: dto.SaldoVenta{
			ID:               venta.ID.String(),
			EsFiada:          venta.EsFiada,
			Total:            venta.Total,
			Pagado:           saldo.Pagado,
			SaldoPendiente:   saldo.Pendiente,
			PorcentajePagado: saldo.PorcentajePagado,
			Estado:           estado,
		},
	}, nil
}
