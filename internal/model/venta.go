package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta estados. A sale is created PENDIENTE (credit) or PAGADA (fully paid
// at the counter) and becomes CANCELADA only through soft deletion.
const (
	VentaPendiente = "PENDIENTE"
	VentaPagada    = "PAGADA"
	VentaCancelada = "CANCELADA"
)

// Venta is the sale aggregate. Items are immutable after creation; the only
// mutation path is appending VentaPago records, which recompute
// SaldoPendiente and may flip Estado to PAGADA.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FechaVenta     time.Time       `gorm:"not null;index"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ClienteDesc identifies the debtor; mandatory when EsFiada.
	ClienteDesc    *string
	Observaciones  *string
	EsFiada        bool            `gorm:"not null;default:false"`
	SaldoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`

	// Soft delete audit trail. Sales are never hard-deleted.
	Activo            bool       `gorm:"not null;default:true"`
	EliminadaEn       *time.Time
	EliminadaPor      *uuid.UUID `gorm:"type:uuid"`
	MotivoEliminacion *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Detalles []VentaDetalle `gorm:"foreignKey:VentaID"`
	Pagos    []VentaPago    `gorm:"foreignKey:VentaID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaDetalle is one sale line. ProductoID is unique within a venta.
type VentaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_venta_producto"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_venta_producto"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaDetalle) TableName() string { return "venta_detalles" }

// VentaPago is one payment (abono) against a sale. Records are append-only:
// there is no update or delete operation on the ledger.
type VentaPago struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPagoID  uuid.UUID       `gorm:"type:uuid;not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observaciones *string
	FechaPago     time.Time `gorm:"not null"`
	CreatedAt     time.Time

	MetodoPago *MetodoPago `gorm:"foreignKey:MetodoPagoID"`
}

func (VentaPago) TableName() string { return "venta_pagos" }
