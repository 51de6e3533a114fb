package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users. Access is role-based: the Rol's assigned
// Formularios determine which sections of the app the user can reach.
type Usuario struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username             string    `gorm:"uniqueIndex;not null"`
	Nombre               string    `gorm:"not null"`
	Email                *string
	Identificacion       *string
	TipoIdentificacionID *uuid.UUID `gorm:"type:uuid"`
	PasswordHash         string     `gorm:"not null"`
	RolID                uuid.UUID  `gorm:"type:uuid;not null"`
	Activo               bool       `gorm:"not null;default:true"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Rol                *Rol                `gorm:"foreignKey:RolID"`
	TipoIdentificacion *TipoIdentificacion `gorm:"foreignKey:TipoIdentificacionID"`
}

func (Usuario) TableName() string { return "usuarios" }

// Rol groups permissions. The "administrador" role is protected: it can be
// neither renamed nor deleted.
type Rol struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Formularios []Formulario `gorm:"many2many:rol_formularios"`
}

func (Rol) TableName() string { return "roles" }

// TipoIdentificacion is a reference entity (cedula, NIT, passport, …).
type TipoIdentificacion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Abreviatura *string
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TipoIdentificacion) TableName() string { return "tipos_identificacion" }
