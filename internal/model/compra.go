package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra mirrors Venta structurally but carries no payment concept: purchases
// are always fully settled at creation. Unlike sales, purchases can be
// updated (line replacement), stock is re-adjusted by the delta.
type Compra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FechaCompra   time.Time       `gorm:"not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observaciones *string
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Activo        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Detalles []CompraDetalle `gorm:"foreignKey:CompraID"`
	Usuario  *Usuario        `gorm:"foreignKey:UsuarioID"`
}

func (Compra) TableName() string { return "compras" }

type CompraDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_compra_producto"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_compra_producto"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CompraDetalle) TableName() string { return "compra_detalles" }
