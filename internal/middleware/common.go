package middleware

import (
	"net/http"
	"sync"
	"time"

	"credipos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestID tags every request so log lines can be correlated. An incoming
// X-Request-ID is respected; otherwise one is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one structured line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		evento := log.Info()
		if c.Writer.Status() >= 500 {
			evento = log.Error()
		} else if c.Writer.Status() >= 400 {
			evento = log.Warn()
		}
		evento.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(inicio)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery converts panics into a 500 envelope instead of killing the server.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apierror.APIError{Detail: "error interno del servidor"})
			}
		}()
		c.Next()
	}
}

// CORS allows the SPA frontend to reach the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RateLimiter applies a fixed-window per-IP limit. Good enough for a
// single-instance deployment; stale windows are pruned inline.
func RateLimiter(limite int, ventana time.Duration) gin.HandlerFunc {
	type ventanaIP struct {
		inicio time.Time
		conteo int
	}
	var mu sync.Mutex
	ventanas := make(map[string]*ventanaIP)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		ahora := time.Now()

		mu.Lock()
		v, ok := ventanas[ip]
		if !ok || ahora.Sub(v.inicio) > ventana {
			ventanas[ip] = &ventanaIP{inicio: ahora, conteo: 1}
			if len(ventanas) > 10000 {
				for k, w := range ventanas {
					if ahora.Sub(w.inicio) > ventana {
						delete(ventanas, k)
					}
				}
			}
			mu.Unlock()
			c.Next()
			return
		}
		v.conteo++
		excedido := v.conteo > limite
		mu.Unlock()

		if excedido {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.APIError{Detail: "demasiadas solicitudes, intente mas tarde"})
			return
		}
		c.Next()
	}
}
