package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handler processes one notification job. Returning an error requeues the job
// until maxIntentos, then parks it in the DLQ.
type Handler interface {
	Procesar(ctx context.Context, payload NotificacionPayload) error
}

// Pool consumes the notification queue with a fixed number of goroutines.
type Pool struct {
	rdb     *redis.Client
	handler Handler
	size    int
	wg      sync.WaitGroup
}

func NewPool(rdb *redis.Client, handler Handler, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{rdb: rdb, handler: handler, size: size}
}

// Start launches the workers. They drain until ctx is cancelled; Wait blocks
// until every goroutine has exited.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("pool de notificaciones iniciado")
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.rdb.BRPop(ctx, 5*time.Second, ColaNotificacion).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("error leyendo la cola de notificaciones")
			time.Sleep(time.Second)
			continue
		}
		// BRPOP returns [key, value]
		if len(res) != 2 {
			continue
		}
		p.procesar(ctx, id, []byte(res[1]))
	}
}

func (p *Pool) procesar(ctx context.Context, id int, raw []byte) {
	var payload NotificacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Int("worker", id).Msg("job ilegible, descartado a DLQ")
		_ = p.rdb.LPush(ctx, ColaNotificacionDLQ, raw).Err()
		return
	}

	if err := p.handler.Procesar(ctx, payload); err != nil {
		payload.Intentos++
		log.Warn().Err(err).
			Str("venta_id", payload.VentaID).
			Int("intentos", payload.Intentos).
			Msg("fallo procesando la notificacion")

		rawRetry, _ := json.Marshal(payload)
		if payload.Intentos >= maxIntentos {
			_ = p.rdb.LPush(ctx, ColaNotificacionDLQ, rawRetry).Err()
			return
		}
		_ = p.rdb.LPush(ctx, ColaNotificacion, rawRetry).Err()
		return
	}
	log.Info().Str("venta_id", payload.VentaID).Int("worker", id).Msg("notificacion enviada")
}
