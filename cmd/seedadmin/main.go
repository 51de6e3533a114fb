// seedadmin bootstraps a fresh database: the administrador role, the full
// formulario catalog, an Efectivo payment method and the first admin user.
// Running it twice is safe; existing rows are left alone.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"credipos/internal/config"
	"credipos/internal/infra"
	"credipos/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func main() {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "defina ADMIN_USERNAME y ADMIN_PASSWORD")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo cargar la configuracion")
	}
	db, err := infra.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}

	ctx := context.Background()
	if err := seed(ctx, db, username, password); err != nil {
		log.Fatal().Err(err).Msg("seed fallido")
	}
	log.Info().Msg("seed completado")
}

func seed(ctx context.Context, db *gorm.DB, username, password string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rol model.Rol
		err := tx.Where("nombre = ?", "administrador").First(&rol).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rol = model.Rol{Nombre: "administrador", Descripcion: strPtr("Acceso total")}
			if err := tx.Create(&rol).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		formularios := []model.Formulario{
			{Titulo: "Ventas", URL: strPtr("/ventas"), Orden: 1},
			{Titulo: "Compras", URL: strPtr("/compras"), Orden: 2},
			{Titulo: "Productos", URL: strPtr("/productos"), Orden: 3},
			{Titulo: "Reportes", URL: strPtr("/reportes"), Orden: 4},
			{Titulo: "Administracion", IsPadre: true, Orden: 5},
		}
		for i := range formularios {
			if err := upsertFormulario(tx, &formularios[i]); err != nil {
				return err
			}
		}

		padre := formularios[4].ID
		hijos := []model.Formulario{
			{Titulo: "Usuarios", URL: strPtr("/usuarios"), PadreID: &padre, Orden: 1},
			{Titulo: "Roles", URL: strPtr("/roles"), PadreID: &padre, Orden: 2},
			{Titulo: "Permisos", URL: strPtr("/permisos"), PadreID: &padre, Orden: 3},
			{Titulo: "Metodos de pago", URL: strPtr("/metodos-pago"), PadreID: &padre, Orden: 4},
			{Titulo: "Tipos de identificacion", URL: strPtr("/tipos-identificacion"), PadreID: &padre, Orden: 5},
		}
		for i := range hijos {
			if err := upsertFormulario(tx, &hijos[i]); err != nil {
				return err
			}
		}

		var metodo model.MetodoPago
		err = tx.Where("nombre = ?", "Efectivo").First(&metodo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(&model.MetodoPago{Nombre: "Efectivo", Activo: true}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var admin model.Usuario
		err = tx.Where("username = ?", username).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			return tx.Create(&model.Usuario{
				Username:     username,
				Nombre:       "Administrador",
				PasswordHash: string(hash),
				RolID:        rol.ID,
				Activo:       true,
			}).Error
		}
		return err
	})
}

func upsertFormulario(tx *gorm.DB, f *model.Formulario) error {
	var existente model.Formulario
	err := tx.Where("titulo = ?", f.Titulo).First(&existente).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(f).Error
	}
	if err != nil {
		return err
	}
	*f = existente
	return nil
}
