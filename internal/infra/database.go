package infra

import (
	"time"

	"credipos/internal/config"
	"credipos/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDB opens the Postgres connection, tunes the pool and migrates the
// schema.
func ConnectDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.Env == "development" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(
		&model.Rol{},
		&model.TipoIdentificacion{},
		&model.Usuario{},
		&model.Formulario{},
		&model.Permiso{},
		&model.MetodoPago{},
		&model.Producto{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.VentaPago{},
		&model.Compra{},
		&model.CompraDetalle{},
		&model.MovimientoStock{},
	); err != nil {
		return nil, err
	}

	log.Info().Msg("base de datos conectada y migrada")
	return db, nil
}
