package dto

import "github.com/shopspring/decimal"

// ReporteFilter selects the reporting window: either a named period or an
// explicit date range.
type ReporteFilter struct {
	Periodo     string `form:"periodo"`      // hoy | semana | mes | anio
	FechaInicio string `form:"fecha_inicio"` // YYYY-MM-DD
	FechaFin    string `form:"fecha_fin"`    // YYYY-MM-DD
}

type PeriodoResponse struct {
	Tipo        string `json:"tipo"`
	FechaInicio string `json:"fecha_inicio"`
	FechaFin    string `json:"fecha_fin"`
	Dias        int    `json:"dias"`
}

type PuntoDiario struct {
	Fecha    string          `json:"fecha"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type ProductoRanking struct {
	ProductoID string          `json:"id_producto"`
	Nombre     string          `json:"nombre"`
	Unidades   int             `json:"unidades"`
	Total      decimal.Decimal `json:"total"`
}

type VendedorRanking struct {
	Nombre string          `json:"nombre"`
	Ventas int             `json:"ventas"`
	Total  decimal.Decimal `json:"total"`
}

type ReporteVentasResponse struct {
	OK      bool            `json:"ok"`
	Periodo PeriodoResponse `json:"periodo"`
	Resumen struct {
		TotalVentas    decimal.Decimal `json:"total_ventas"`
		CantidadVentas int             `json:"cantidad_ventas"`
		VentaPromedio  decimal.Decimal `json:"venta_promedio"`
		VentasContado  int             `json:"ventas_contado"`
		VentasFiadas   int             `json:"ventas_fiadas"`
		TotalContado   decimal.Decimal `json:"total_contado"`
		TotalFiado     decimal.Decimal `json:"total_fiado"`
	} `json:"resumen"`
	PorDia               []PuntoDiario     `json:"por_dia"`
	ProductosMasVendidos []ProductoRanking `json:"productos_mas_vendidos"`
	Vendedores           []VendedorRanking `json:"vendedores"`
}

type ReporteComprasResponse struct {
	OK      bool            `json:"ok"`
	Periodo PeriodoResponse `json:"periodo"`
	Resumen struct {
		TotalCompras    decimal.Decimal `json:"total_compras"`
		CantidadCompras int             `json:"cantidad_compras"`
		CompraPromedio  decimal.Decimal `json:"compra_promedio"`
	} `json:"resumen"`
	PorDia                 []PuntoDiario     `json:"por_dia"`
	ProductosMasComprados  []ProductoRanking `json:"productos_mas_comprados"`
	Usuarios               []VendedorRanking `json:"usuarios"`
}

type StockAlertaItem struct {
	ProductoID  string `json:"id_producto"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo,omitempty"`
	StockMaximo int    `json:"stock_maximo,omitempty"`
	Faltante    int    `json:"faltante,omitempty"`
	Exceso      int    `json:"exceso,omitempty"`
}

type DashboardResponse struct {
	OK              bool   `json:"ok"`
	FechaGeneracion string `json:"fecha_generacion"`
	ResumenHoy      struct {
		Ventas  ResumenMovimiento `json:"ventas"`
		Compras ResumenMovimiento `json:"compras"`
	} `json:"resumen_hoy"`
	ResumenMes struct {
		Ventas       ResumenMovimiento `json:"ventas"`
		Compras      ResumenMovimiento `json:"compras"`
		GananciaNeta decimal.Decimal   `json:"ganancia_neta"`
	} `json:"resumen_mes"`
	Inventario struct {
		TotalProductos            int               `json:"total_productos"`
		ProductosSobreMaximo      int               `json:"productos_sobre_maximo"`
		ProductosBajoMinimo       int               `json:"productos_bajo_minimo"`
		ValorTotal                decimal.Decimal   `json:"valor_total"`
		ProductosSobreMaximoLista []StockAlertaItem `json:"productos_sobre_maximo_lista"`
		ProductosBajoMinimoLista  []StockAlertaItem `json:"productos_bajo_minimo_lista"`
	} `json:"inventario"`
	Cartera struct {
		VentasPendientes int             `json:"ventas_pendientes"`
		TotalPorCobrar   decimal.Decimal `json:"total_por_cobrar"`
	} `json:"cartera"`
	Top5Productos []ProductoRanking `json:"top_5_productos"`
}

type ResumenMovimiento struct {
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}
