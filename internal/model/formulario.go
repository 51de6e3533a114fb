package model

import (
	"github.com/google/uuid"
)

// Formulario is one navigable section of the application. The menu is built
// from these rows. Parent entries (IsPadre) group children via PadreID.
// Clients consume the explicit {id, url, padre_id} triplet; they never
// string-match titles.
type Formulario struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Titulo string    `gorm:"not null"`
	URL    *string   `gorm:"column:url"`
	PadreID *uuid.UUID `gorm:"type:uuid"`
	IsPadre bool       `gorm:"not null;default:false"`
	Orden   int        `gorm:"not null;default:0"`
}

func (Formulario) TableName() string { return "formularios" }

// Permiso links a Rol to a Formulario it may access. The pair is unique.
type Permiso struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RolID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rol_formulario"`
	FormularioID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rol_formulario"`

	Rol        *Rol        `gorm:"foreignKey:RolID"`
	Formulario *Formulario `gorm:"foreignKey:FormularioID"`
}

func (Permiso) TableName() string { return "rol_formularios" }
