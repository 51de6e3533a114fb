package dto

import "github.com/shopspring/decimal"

type DetalleCompraRequest struct {
	ProductoID     string          `json:"id_producto"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1,max=999999"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required,min=1,max=99999999"`
}

type RegistrarCompraRequest struct {
	Detalles      []DetalleCompraRequest `json:"detalles"    validate:"required,min=1,max=200,dive"`
	FechaCompra   *string                `json:"fecha_compra" validate:"omitempty,datetime=2006-01-02"`
	Observaciones *string                `json:"observaciones"`
}

type DetalleCompraResponse struct {
	ProductoID     string          `json:"id_producto"`
	Producto       string          `json:"nombre_producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID            string                  `json:"id_compra"`
	FechaCompra   string                  `json:"fecha_compra"`
	Total         decimal.Decimal         `json:"total"`
	Observaciones *string                 `json:"observaciones,omitempty"`
	Usuario       string                  `json:"nombre_usuario"`
	Detalles      []DetalleCompraResponse `json:"detalles"`
	CreatedAt     string                  `json:"creado_en"`
}

type RegistrarCompraResponse struct {
	Compra  CompraResponse `json:"compra"`
	Message string         `json:"message"`
}
