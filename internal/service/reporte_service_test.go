package service

import (
	"testing"
	"time"

	"credipos/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverPeriodo(t *testing.T) {
	// Miercoles 2026-08-12
	ahora := time.Date(2026, 8, 12, 15, 30, 0, 0, time.UTC)

	t.Run("hoy", func(t *testing.T) {
		inicio, fin, tipo, err := resolverPeriodo(dto.ReporteFilter{Periodo: "hoy"}, ahora)
		require.NoError(t, err)
		assert.Equal(t, "hoy", tipo)
		assert.Equal(t, "2026-08-12", inicio.Format("2006-01-02"))
		assert.Equal(t, "2026-08-13", fin.Format("2006-01-02"))
	})

	t.Run("semana empieza el lunes", func(t *testing.T) {
		inicio, fin, _, err := resolverPeriodo(dto.ReporteFilter{Periodo: "semana"}, ahora)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-10", inicio.Format("2006-01-02"))
		assert.Equal(t, "2026-08-17", fin.Format("2006-01-02"))
	})

	t.Run("mes", func(t *testing.T) {
		inicio, fin, _, err := resolverPeriodo(dto.ReporteFilter{Periodo: "mes"}, ahora)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-01", inicio.Format("2006-01-02"))
		assert.Equal(t, "2026-09-01", fin.Format("2006-01-02"))
	})

	t.Run("rango explicito es inclusivo en ambos extremos", func(t *testing.T) {
		inicio, fin, tipo, err := resolverPeriodo(dto.ReporteFilter{
			FechaInicio: "2026-07-01",
			FechaFin:    "2026-07-15",
		}, ahora)
		require.NoError(t, err)
		assert.Equal(t, "personalizado", tipo)
		assert.Equal(t, "2026-07-01", inicio.Format("2006-01-02"))
		assert.Equal(t, "2026-07-16", fin.Format("2006-01-02"))
	})

	t.Run("rango invertido es rechazado", func(t *testing.T) {
		_, _, _, err := resolverPeriodo(dto.ReporteFilter{
			FechaInicio: "2026-07-15",
			FechaFin:    "2026-07-01",
		}, ahora)
		require.Error(t, err)
	})

	t.Run("fecha suelta es rechazada", func(t *testing.T) {
		_, _, _, err := resolverPeriodo(dto.ReporteFilter{FechaInicio: "2026-07-01"}, ahora)
		require.Error(t, err)
	})

	t.Run("sin filtro usa el mes actual", func(t *testing.T) {
		inicio, _, tipo, err := resolverPeriodo(dto.ReporteFilter{}, ahora)
		require.NoError(t, err)
		assert.Equal(t, "mes", tipo)
		assert.Equal(t, "2026-08-01", inicio.Format("2006-01-02"))
	})

	t.Run("periodo desconocido es rechazado", func(t *testing.T) {
		_, _, _, err := resolverPeriodo(dto.ReporteFilter{Periodo: "trimestre"}, ahora)
		require.Error(t, err)
	})
}
