//go:build integration

// End-to-end flow against real Postgres and Redis containers:
// login, create a product, sell it on credit, pay it off in two abonos and
// verify the settlement. Run with: go test -tags integration ./e2e/...
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credipos/internal/config"
	"credipos/internal/handler"
	"credipos/internal/infra"
	"credipos/internal/model"
	"credipos/internal/repository"
	"credipos/internal/router"
	"credipos/internal/service"
	"credipos/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setup(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("credipos"),
		tcpostgres.WithUsername("credipos"),
		tcpostgres.WithPassword("credipos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	rd, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Terminate(ctx) })

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	redisURL, err := rd.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "development",
		DatabaseURL:        dbURL,
		RedisURL:           redisURL,
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
		WorkerPoolSize:     1,
	}

	db, err := infra.ConnectDB(cfg)
	require.NoError(t, err)
	rdb, err := infra.ConnectRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	ventaRepo := repository.NewVentaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	metodoRepo := repository.NewMetodoPagoRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	rolRepo := repository.NewRolRepository(db)
	tipoRepo := repository.NewTipoIdentificacionRepository(db)
	formularioRepo := repository.NewFormularioRepository(db)
	permisoRepo := repository.NewPermisoRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	guard := service.NewStockGuard(productoRepo)
	dispatcher := worker.NewDispatcher(rdb)
	authSvc := service.NewAuthService(cfg, usuarioRepo, rolRepo, formularioRepo)

	engine := router.New(cfg, authSvc, router.Handlers{
		Health: handler.NewHealthHandler(db, rdb),
		Auth:   handler.NewAuthHandler(authSvc),
		Ventas: handler.NewVentaHandler(
			service.NewVentaService(ventaRepo, productoRepo, metodoRepo, movRepo, guard),
			service.NewAbonoService(ventaRepo, metodoRepo, dispatcher),
			ventaRepo,
		),
		Compras: handler.NewCompraHandler(
			service.NewCompraService(compraRepo, productoRepo, movRepo, guard)),
		Productos: handler.NewProductoHandler(
			service.NewProductoService(productoRepo, movRepo)),
		Referencias: handler.NewReferenciaHandler(
			service.NewMetodoPagoService(metodoRepo),
			service.NewRolService(rolRepo, permisoRepo),
			service.NewTipoIdentificacionService(tipoRepo)),
		Permisos: handler.NewPermisoHandler(
			service.NewPermisoService(permisoRepo, formularioRepo, rolRepo)),
		Reportes: handler.NewReporteHandler(
			service.NewReporteService(reporteRepo, rdb)),
	})

	seedAdmin(t, db)
	return engine, db
}

func seedAdmin(t *testing.T, db *gorm.DB) {
	t.Helper()
	rol := model.Rol{Nombre: "administrador"}
	require.NoError(t, db.Create(&rol).Error)
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin",
		Nombre:       "Administrador",
		PasswordHash: string(hash),
		RolID:        rol.ID,
		Activo:       true,
	}).Error)
	require.NoError(t, db.Create(&model.MetodoPago{Nombre: "Efectivo", Activo: true}).Error)
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestFlujoVentaFiada(t *testing.T) {
	h, _ := setup(t)

	// Login
	rec := do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": "admin", "password": "secreta123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, rec, &login)
	token := login.AccessToken

	// Producto
	rec = do(t, h, http.MethodPost, "/v1/productos", token, map[string]interface{}{
		"nombre": "Cafe molido", "precio_unitario": 1000, "stock_actual": 50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var prod struct {
		ID string `json:"id_producto"`
	}
	decode(t, rec, &prod)

	// Metodo de pago
	rec = do(t, h, http.MethodGet, "/v1/metodos-pago", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var metodos []struct {
		ID string `json:"id_metodo_pago"`
	}
	decode(t, rec, &metodos)
	require.NotEmpty(t, metodos)

	// Venta fiada: total 2000, pago inicial 500
	rec = do(t, h, http.MethodPost, "/v1/ventas", token, map[string]interface{}{
		"cliente_desc": "Juan",
		"detalles": []map[string]interface{}{
			{"id_producto": prod.ID, "cantidad": 2, "precio_unitario": 1000},
		},
		"pagos": []map[string]interface{}{
			{"id_metodo_pago": metodos[0].ID, "monto": 500},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var creada struct {
		Venta struct {
			ID      string `json:"id_venta"`
			EsFiada bool   `json:"es_fiada"`
			Estado  string `json:"estado"`
		} `json:"venta"`
	}
	decode(t, rec, &creada)
	assert.True(t, creada.Venta.EsFiada)
	assert.Equal(t, "PENDIENTE", creada.Venta.Estado)

	// Abono que excede el saldo: rechazado
	rec = do(t, h, http.MethodPost, fmt.Sprintf("/v1/ventas/%s/abonos", creada.Venta.ID), token,
		map[string]interface{}{"id_metodo_pago": metodos[0].ID, "monto": 5000})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// Abono que salda
	rec = do(t, h, http.MethodPost, fmt.Sprintf("/v1/ventas/%s/abonos", creada.Venta.ID), token,
		map[string]interface{}{"id_metodo_pago": metodos[0].ID, "monto": 1500})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var abono struct {
		Venta struct {
			Estado string `json:"estado"`
		} `json:"venta"`
	}
	decode(t, rec, &abono)
	assert.Equal(t, "PAGADA", abono.Venta.Estado)

	// Ledger completo
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/v1/ventas/%s/abonos", creada.Venta.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ledger struct {
		Total int `json:"total"`
		Venta struct {
			PorcentajePagado int    `json:"porcentaje_pagado"`
			Estado           string `json:"estado"`
		} `json:"venta"`
	}
	decode(t, rec, &ledger)
	assert.Equal(t, 2, ledger.Total)
	assert.Equal(t, 100, ledger.Venta.PorcentajePagado)
	assert.Equal(t, "PAGADA", ledger.Venta.Estado)

	// Estado de cuenta PDF
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/v1/ventas/%s/estado-cuenta", creada.Venta.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}
