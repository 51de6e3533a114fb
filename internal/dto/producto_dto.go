package dto

import "github.com/shopspring/decimal"

type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "", "false", "all"
	Page   int    `form:"page,default=1"    validate:"min=1"`
	Limit  int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type CrearProductoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,max=150"`
	Descripcion    *string         `json:"descripcion"     validate:"omitempty,max=255"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required,min=1,max=99999999"`
	StockActual    int             `json:"stock_actual"    validate:"min=0"`
	StockMinimo    int             `json:"stock_minimo"    validate:"min=0"`
	StockMaximo    int             `json:"stock_maximo"    validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,max=150"`
	Descripcion    *string          `json:"descripcion"     validate:"omitempty,max=255"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,min=1,max=99999999"`
	StockMinimo    *int             `json:"stock_minimo"    validate:"omitempty,min=0"`
	StockMaximo    *int             `json:"stock_maximo"    validate:"omitempty,min=0"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id_movimiento"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo,omitempty"`
	ReferenciaID  *string `json:"id_referencia,omitempty"`
	Fecha         string  `json:"fecha"`
}

type ProductoResponse struct {
	ID             string          `json:"id_producto"`
	Nombre         string          `json:"nombre"`
	Descripcion    *string         `json:"descripcion,omitempty"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	StockActual    int             `json:"stock_actual"`
	StockMinimo    int             `json:"stock_minimo"`
	StockMaximo    int             `json:"stock_maximo"`
	Activo         bool            `json:"activo"`
}
