package infra

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitoAbierto is returned while the breaker is rejecting calls.
var ErrCircuitoAbierto = errors.New("circuito abierto: servicio externo degradado")

// CircuitBreaker guards an external dependency. After umbral consecutive
// failures it opens for enfriamiento; the first call after the cooldown
// probes the dependency again (half-open).
type CircuitBreaker struct {
	mu           sync.Mutex
	fallos       int
	umbral       int
	enfriamiento time.Duration
	abiertoHasta time.Time
}

func NewCircuitBreaker(umbral int, enfriamiento time.Duration) *CircuitBreaker {
	if umbral < 1 {
		umbral = 5
	}
	return &CircuitBreaker{umbral: umbral, enfriamiento: enfriamiento}
}

// Ejecutar runs fn unless the circuit is open.
func (cb *CircuitBreaker) Ejecutar(fn func() error) error {
	cb.mu.Lock()
	if !cb.abiertoHasta.IsZero() && time.Now().Before(cb.abiertoHasta) {
		cb.mu.Unlock()
		return ErrCircuitoAbierto
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.fallos++
		if cb.fallos >= cb.umbral {
			cb.abiertoHasta = time.Now().Add(cb.enfriamiento)
			cb.fallos = 0
		}
		return err
	}
	cb.fallos = 0
	cb.abiertoHasta = time.Time{}
	return nil
}
