package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// ColaNotificacion holds pending settlement notifications. Workers BRPOP
	// from it; jobs that exhaust their retries land in the DLQ for manual
	// inspection.
	ColaNotificacion    = "jobs:notificacion"
	ColaNotificacionDLQ = "jobs:notificacion:dlq"

	maxIntentos = 3
)

// NotificacionPayload is the job body for a settled credit sale.
type NotificacionPayload struct {
	VentaID  string `json:"venta_id"`
	Intentos int    `json:"intentos,omitempty"`
}

// Dispatcher pushes jobs onto the Redis queues. It is safe for concurrent use.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueNotificacion(ctx context.Context, payload NotificacionPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, ColaNotificacion, raw).Err(); err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("no se pudo encolar la notificacion")
		return err
	}
	log.Debug().Str("venta_id", payload.VentaID).Msg("notificacion encolada")
	return nil
}
