package dto

import "github.com/shopspring/decimal"

type RegistrarAbonoRequest struct {
	MetodoPagoID  string          `json:"id_metodo_pago" validate:"required,uuid"`
	Monto         decimal.Decimal `json:"monto"          validate:"required,min=1,max=99999999"`
	Observaciones *string         `json:"observaciones"`
}

type AbonoResponse struct {
	ID            string          `json:"id_venta_pago"`
	FechaPago     string          `json:"fecha_pago"`
	Monto         decimal.Decimal `json:"monto"`
	MetodoPago    string          `json:"metodo_pago"`
	Observaciones *string         `json:"observaciones,omitempty"`
}

// SaldoVenta is the balance snapshot returned alongside the abono ledger,
// recomputed from the ledger on every read.
type SaldoVenta struct {
	ID               string          `json:"id_venta"`
	EsFiada          bool            `json:"es_fiada"`
	Total            decimal.Decimal `json:"total"`
	Pagado           decimal.Decimal `json:"pagado"`
	SaldoPendiente   decimal.Decimal `json:"saldo_pendiente"`
	PorcentajePagado int             `json:"porcentaje_pagado"`
	Estado           string          `json:"estado"`
}

type ListarAbonosResponse struct {
	OK     bool            `json:"ok"`
	Total  int             `json:"total"`
	Abonos []AbonoResponse `json:"abonos"`
	Venta  SaldoVenta      `json:"venta"`
}

type RegistrarAbonoResponse struct {
	Message string        `json:"message"`
	Abono   AbonoResponse `json:"abono"`
	Venta   struct {
		SaldoNuevo decimal.Decimal `json:"saldo_nuevo"`
		Estado     string          `json:"estado"`
	} `json:"venta"`
}
