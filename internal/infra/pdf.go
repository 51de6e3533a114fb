package infra

import (
	"bytes"
	"strconv"

	"credipos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// EstadoCuenta is the renderable account statement of a credit sale.
type EstadoCuenta struct {
	VentaID        string
	FechaVenta     string
	Cliente        string
	Estado         string
	Total          decimal.Decimal
	Pagado         decimal.Decimal
	SaldoPendiente decimal.Decimal

	Detalles []LineaEstado
	Pagos    []PagoEstado
}

type LineaEstado struct {
	Producto       string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

type PagoEstado struct {
	Fecha  string
	Metodo string
	Monto  decimal.Decimal
}

// EstadoCuentaDeVenta flattens a loaded venta and its ledger into the
// renderable statement.
func EstadoCuentaDeVenta(venta *model.Venta, pagos []model.VentaPago) EstadoCuenta {
	data := EstadoCuenta{
		VentaID:    venta.ID.String(),
		FechaVenta: venta.FechaVenta.Format("2006-01-02"),
		Estado:     venta.Estado,
		Total:      venta.Total,
	}
	if venta.ClienteDesc != nil {
		data.Cliente = *venta.ClienteDesc
	}

	for _, d := range venta.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		data.Detalles = append(data.Detalles, LineaEstado{
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}

	pagado := decimal.Zero
	for _, p := range pagos {
		pagado = pagado.Add(p.Monto)
		metodo := ""
		if p.MetodoPago != nil {
			metodo = p.MetodoPago.Nombre
		}
		data.Pagos = append(data.Pagos, PagoEstado{
			Fecha:  p.FechaPago.Format("2006-01-02"),
			Metodo: metodo,
			Monto:  p.Monto,
		})
	}
	data.Pagado = pagado
	pendiente := venta.Total.Sub(pagado)
	if pendiente.IsNegative() {
		pendiente = decimal.Zero
	}
	data.SaldoPendiente = pendiente
	return data
}

// GenerarEstadoCuentaPDF renders the statement: header, line items, payment
// ledger and the balance footer.
func GenerarEstadoCuentaPDF(data EstadoCuenta) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Estado de cuenta", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Estado de cuenta")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Venta: "+data.VentaID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Fecha: "+data.FechaVenta)
	pdf.Ln(6)
	if data.Cliente != "" {
		pdf.Cell(0, 6, "Cliente: "+data.Cliente)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Estado: "+data.Estado)
	pdf.Ln(10)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 7, "Producto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Cantidad", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Precio", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, d := range data.Detalles {
		pdf.CellFormat(80, 7, d.Producto, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, strconv.Itoa(d.Cantidad), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, d.PrecioUnitario.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, d.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Payment ledger
	if len(data.Pagos) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Abonos")
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 7, "Fecha", "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, "Metodo", "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 7, "Monto", "1", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range data.Pagos {
			pdf.CellFormat(60, 7, p.Fecha, "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, p.Metodo, "1", 0, "L", false, 0, "")
			pdf.CellFormat(55, 7, p.Monto.StringFixed(2), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "Total: "+data.Total.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Pagado: "+data.Pagado.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Saldo pendiente: "+data.SaldoPendiente.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
