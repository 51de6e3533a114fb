package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"credipos/internal/config"
	"credipos/internal/handler"
	"credipos/internal/infra"
	"credipos/internal/repository"
	"credipos/internal/router"
	"credipos/internal/service"
	"credipos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo cargar la configuracion")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := infra.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}
	rdb, err := infra.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a redis")
	}

	// Repositories
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

	// Async pipeline
	dispatcher := worker.NewDispatcher(rdb)
	mailer := infra.NewSMTPMailer(cfg)
	notificaciones := worker.NewNotificacionHandler(cfg, ventaRepo, mailer)
	pool := worker.NewPool(rdb, notificaciones, cfg.WorkerPoolSize)

	// Services
	guard := service.NewStockGuard(productoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, metodoRepo, movRepo, guard)
	abonoSvc := service.NewAbonoService(ventaRepo, metodoRepo, dispatcher)
	compraSvc := service.NewCompraService(compraRepo, productoRepo, movRepo, guard)
	productoSvc := service.NewProductoService(productoRepo, movRepo)
	metodoSvc := service.NewMetodoPagoService(metodoRepo)
	rolSvc := service.NewRolService(rolRepo, permisoRepo)
	tipoSvc := service.NewTipoIdentificacionService(tipoRepo)
	permisoSvc := service.NewPermisoService(permisoRepo, formularioRepo, rolRepo)
	reporteSvc := service.NewReporteService(reporteRepo, rdb)
	authSvc := service.NewAuthService(cfg, usuarioRepo, rolRepo, formularioRepo)

	engine := router.New(cfg, authSvc, router.Handlers{
		Health:      handler.NewHealthHandler(db, rdb),
		Auth:        handler.NewAuthHandler(authSvc),
		Ventas:      handler.NewVentaHandler(ventaSvc, abonoSvc, ventaRepo),
		Compras:     handler.NewCompraHandler(compraSvc),
		Productos:   handler.NewProductoHandler(productoSvc),
		Referencias: handler.NewReferenciaHandler(metodoSvc, rolSvc, tipoSvc),
		Permisos:    handler.NewPermisoHandler(permisoSvc),
		Reportes:    handler.NewReporteHandler(reporteSvc),
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("el servidor se detuvo")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado forzado del servidor HTTP")
	}

	cancel()
	pool.Wait()

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("error cerrando redis")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("apagado completo")
}
