package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	IncluirEliminadas bool   `form:"incluir_eliminadas"`
	Estado            string `form:"estado"` // PENDIENTE | PAGADA | CANCELADA | all
	Fecha             string `form:"fecha"`  // YYYY-MM-DD
	Page              int    `form:"page,default=1"   validate:"min=1"`
	Limit             int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListItem struct {
	ID             string          `json:"id_venta"`
	FechaVenta     string          `json:"fecha_venta"`
	Total          decimal.Decimal `json:"total"`
	ClienteDesc    *string         `json:"cliente_desc,omitempty"`
	EsFiada        bool            `json:"es_fiada"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
	Estado         string          `json:"estado"`
	Usuario        string          `json:"usuario"`
	Activo         bool            `json:"activo"`
	Productos      []string        `json:"productos"`
}

type VentaListResponse struct {
	Data  []VentaListItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	ProductoID     string          `json:"id_producto"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1,max=999999"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required,min=1,max=99999999"`
}

type PagoVentaRequest struct {
	MetodoPagoID  string          `json:"id_metodo_pago" validate:"required,uuid"`
	Monto         decimal.Decimal `json:"monto"          validate:"required,min=1,max=99999999"`
	Observaciones *string         `json:"observaciones"`
}

type RegistrarVentaRequest struct {
	Detalles []DetalleVentaRequest `json:"detalles" validate:"required,min=1,max=200,dive"`
	// Pagos may be empty or partial: a sale whose payments do not cover the
	// total becomes a venta fiada and requires ClienteDesc.
	Pagos         []PagoVentaRequest `json:"pagos"       validate:"omitempty,dive"`
	ClienteDesc   *string            `json:"cliente_desc"`
	FechaVenta    *string            `json:"fecha_venta" validate:"omitempty,datetime=2006-01-02"`
	Observaciones *string            `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"id_producto"`
	Producto       string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string                 `json:"id_venta"`
	FechaVenta     string                 `json:"fecha_venta"`
	Detalles       []DetalleVentaResponse `json:"detalles"`
	Total          decimal.Decimal        `json:"total"`
	ClienteDesc    *string                `json:"cliente_desc,omitempty"`
	Observaciones  *string                `json:"observaciones,omitempty"`
	EsFiada        bool                   `json:"es_fiada"`
	SaldoPendiente decimal.Decimal        `json:"saldo_pendiente"`
	Estado         string                 `json:"estado"`
	Activo         bool                   `json:"activo"`
	CreatedAt      string                 `json:"creado_en"`
}

type RegistrarVentaResponse struct {
	Venta    VentaResponse `json:"venta"`
	Message  string        `json:"message"`
	Warnings []string      `json:"warnings,omitempty"`
}
