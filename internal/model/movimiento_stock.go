package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Los registros son inmutables: nunca se eliminan ni modifican.
// Tipo: "venta" | "compra" | "anulacion_venta" | "anulacion_compra" | "ajuste_compra"
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id or compra_id
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
