package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto represents one catalog item with its stock thresholds.
// StockMinimo and StockMaximo feed the stock guard: a sale may not leave
// stock below the minimum, and undoing a sale may not push it over the
// maximum. StockMaximo = 0 means "no upper bound configured".
type Producto struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"index;not null"`
	Descripcion    *string
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockActual    int             `gorm:"not null;default:0"`
	StockMinimo    int             `gorm:"not null;default:0"`
	StockMaximo    int             `gorm:"not null;default:0"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Producto) TableName() string { return "productos" }
