package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"credipos/internal/dto"
	"credipos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// reporteCacheTTL keeps dashboards snappy without showing stale numbers for
// longer than a minute.
const reporteCacheTTL = 60 * time.Second

type ReporteService interface {
	Ventas(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteVentasResponse, error)
	Compras(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteComprasResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type reporteService struct {
	repo  repository.ReporteRepository
	cache *redis.Client
}

func NewReporteService(repo repository.ReporteRepository, cache *redis.Client) ReporteService {
	return &reporteService{repo: repo, cache: cache}
}

// resolverPeriodo turns the filter into a half-open [inicio, fin) window.
// Named periods win over explicit dates; the default is the current month.
func resolverPeriodo(filter dto.ReporteFilter, ahora time.Time) (inicio, fin time.Time, tipo string, err error) {
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())

	switch filter.Periodo {
	case "hoy":
		return hoy, hoy.AddDate(0, 0, 1), "hoy", nil
	case "semana":
		// Monday-based week.
		offset := (int(hoy.Weekday()) + 6) % 7
		lunes := hoy.AddDate(0, 0, -offset)
		return lunes, lunes.AddDate(0, 0, 7), "semana", nil
	case "mes":
		primero := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())
		return primero, primero.AddDate(0, 1, 0), "mes", nil
	case "anio":
		primero := time.Date(ahora.Year(), 1, 1, 0, 0, 0, 0, ahora.Location())
		return primero, primero.AddDate(1, 0, 0), "anio", nil
	case "":
		// explicit range or default below
	default:
		return time.Time{}, time.Time{}, "", fmt.Errorf("periodo desconocido: %s", filter.Periodo)
	}

	if filter.FechaInicio != "" || filter.FechaFin != "" {
		if filter.FechaInicio == "" || filter.FechaFin == "" {
			return time.Time{}, time.Time{}, "", errors.New("fecha_inicio y fecha_fin deben enviarse juntas")
		}
		inicio, err = time.ParseInLocation("2006-01-02", filter.FechaInicio, ahora.Location())
		if err != nil {
			return time.Time{}, time.Time{}, "", errors.New("fecha_inicio invalida, formato esperado YYYY-MM-DD")
		}
		finDia, err := time.ParseInLocation("2006-01-02", filter.FechaFin, ahora.Location())
		if err != nil {
			return time.Time{}, time.Time{}, "", errors.New("fecha_fin invalida, formato esperado YYYY-MM-DD")
		}
		if finDia.Before(inicio) {
			return time.Time{}, time.Time{}, "", errors.New("fecha_fin no puede ser anterior a fecha_inicio")
		}
		return inicio, finDia.AddDate(0, 0, 1), "personalizado", nil
	}

	primero := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())
	return primero, primero.AddDate(0, 1, 0), "mes", nil
}

func periodoResponse(inicio, fin time.Time, tipo string) dto.PeriodoResponse {
	return dto.PeriodoResponse{
		Tipo:        tipo,
		FechaInicio: inicio.Format("2006-01-02"),
		FechaFin:    fin.AddDate(0, 0, -1).Format("2006-01-02"),
		Dias:        int(fin.Sub(inicio).Hours() / 24),
	}
}

// leerCache and escribirCache are best effort: a Redis outage degrades to
// recomputing, never to an error.
func (s *reporteService) leerCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *reporteService) escribirCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, reporteCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear el reporte")
	}
}

func (s *reporteService) Ventas(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteVentasResponse, error) {
	inicio, fin, tipo, err := resolverPeriodo(filter, time.Now())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reportes:ventas:%s:%s", inicio.Format("2006-01-02"), fin.Format("2006-01-02"))
	var cached dto.ReporteVentasResponse
	if s.leerCache(ctx, key, &cached) {
		return &cached, nil
	}

	ventas, err := s.repo.VentasEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteVentasResponse{OK: true, Periodo: periodoResponse(inicio, fin, tipo)}

	porDia := map[string]*dto.PuntoDiario{}
	porProducto := map[string]*dto.ProductoRanking{}
	porVendedor := map[string]*dto.VendedorRanking{}

	for _, v := range ventas {
		resp.Resumen.TotalVentas = resp.Resumen.TotalVentas.Add(v.Total)
		resp.Resumen.CantidadVentas++
		if v.EsFiada {
			resp.Resumen.VentasFiadas++
			resp.Resumen.TotalFiado = resp.Resumen.TotalFiado.Add(v.Total)
		} else {
			resp.Resumen.VentasContado++
			resp.Resumen.TotalContado = resp.Resumen.TotalContado.Add(v.Total)
		}

		dia := v.FechaVenta.Format("2006-01-02")
		if porDia[dia] == nil {
			porDia[dia] = &dto.PuntoDiario{Fecha: dia}
		}
		porDia[dia].Cantidad++
		porDia[dia].Total = porDia[dia].Total.Add(v.Total)

		for _, d := range v.Detalles {
			pid := d.ProductoID.String()
			if porProducto[pid] == nil {
				nombre := ""
				if d.Producto != nil {
					nombre = d.Producto.Nombre
				}
				porProducto[pid] = &dto.ProductoRanking{ProductoID: pid, Nombre: nombre}
			}
			porProducto[pid].Unidades += d.Cantidad
			porProducto[pid].Total = porProducto[pid].Total.Add(d.Subtotal)
		}

		if v.Usuario != nil {
			if porVendedor[v.Usuario.Nombre] == nil {
				porVendedor[v.Usuario.Nombre] = &dto.VendedorRanking{Nombre: v.Usuario.Nombre}
			}
			porVendedor[v.Usuario.Nombre].Ventas++
			porVendedor[v.Usuario.Nombre].Total = porVendedor[v.Usuario.Nombre].Total.Add(v.Total)
		}
	}

	if resp.Resumen.CantidadVentas > 0 {
		resp.Resumen.VentaPromedio = resp.Resumen.TotalVentas.
			Div(decimal.NewFromInt(int64(resp.Resumen.CantidadVentas))).Round(2)
	}
	resp.PorDia = ordenarPorDia(porDia)
	resp.ProductosMasVendidos = rankingProductos(porProducto, 10)
	resp.Vendedores = rankingVendedores(porVendedor)

	s.escribirCache(ctx, key, resp)
	return resp, nil
}

func (s *reporteService) Compras(ctx context.Context, filter dto.ReporteFilter) (*dto.ReporteComprasResponse, error) {
	inicio, fin, tipo, err := resolverPeriodo(filter, time.Now())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reportes:compras:%s:%s", inicio.Format("2006-01-02"), fin.Format("2006-01-02"))
	var cached dto.ReporteComprasResponse
	if s.leerCache(ctx, key, &cached) {
		return &cached, nil
	}

	compras, err := s.repo.ComprasEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteComprasResponse{OK: true, Periodo: periodoResponse(inicio, fin, tipo)}

	porDia := map[string]*dto.PuntoDiario{}
	porProducto := map[string]*dto.ProductoRanking{}
	porUsuario := map[string]*dto.VendedorRanking{}

	for _, c := range compras {
		resp.Resumen.TotalCompras = resp.Resumen.TotalCompras.Add(c.Total)
		resp.Resumen.CantidadCompras++

		dia := c.FechaCompra.Format("2006-01-02")
		if porDia[dia] == nil {
			porDia[dia] = &dto.PuntoDiario{Fecha: dia}
		}
		porDia[dia].Cantidad++
		porDia[dia].Total = porDia[dia].Total.Add(c.Total)

		for _, d := range c.Detalles {
			pid := d.ProductoID.String()
			if porProducto[pid] == nil {
				nombre := ""
				if d.Producto != nil {
					nombre = d.Producto.Nombre
				}
				porProducto[pid] = &dto.ProductoRanking{ProductoID: pid, Nombre: nombre}
			}
			porProducto[pid].Unidades += d.Cantidad
			porProducto[pid].Total = porProducto[pid].Total.Add(d.Subtotal)
		}

		if c.Usuario != nil {
			if porUsuario[c.Usuario.Nombre] == nil {
				porUsuario[c.Usuario.Nombre] = &dto.VendedorRanking{Nombre: c.Usuario.Nombre}
			}
			porUsuario[c.Usuario.Nombre].Ventas++
			porUsuario[c.Usuario.Nombre].Total = porUsuario[c.Usuario.Nombre].Total.Add(c.Total)
		}
	}

	if resp.Resumen.CantidadCompras > 0 {
		resp.Resumen.CompraPromedio = resp.Resumen.TotalCompras.
			Div(decimal.NewFromInt(int64(resp.Resumen.CantidadCompras))).Round(2)
	}
	resp.PorDia = ordenarPorDia(porDia)
	resp.ProductosMasComprados = rankingProductos(porProducto, 10)
	resp.Usuarios = rankingVendedores(porUsuario)

	s.escribirCache(ctx, key, resp)
	return resp, nil
}

func (s *reporteService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	const key = "reportes:dashboard"
	var cached dto.DashboardResponse
	if s.leerCache(ctx, key, &cached) {
		return &cached, nil
	}

	ahora := time.Now()
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	primeroMes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())

	ventasMes, err := s.repo.VentasEnRango(ctx, primeroMes, primeroMes.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	comprasMes, err := s.repo.ComprasEnRango(ctx, primeroMes, primeroMes.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	pendientes, err := s.repo.VentasPendientes(ctx)
	if err != nil {
		return nil, err
	}
	productos, err := s.repo.ProductosActivos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{OK: true, FechaGeneracion: ahora.Format("2006-01-02T15:04:05Z")}

	porProducto := map[string]*dto.ProductoRanking{}
	for _, v := range ventasMes {
		resp.ResumenMes.Ventas.Cantidad++
		resp.ResumenMes.Ventas.Total = resp.ResumenMes.Ventas.Total.Add(v.Total)
		if !v.FechaVenta.Before(hoy) {
			resp.ResumenHoy.Ventas.Cantidad++
			resp.ResumenHoy.Ventas.Total = resp.ResumenHoy.Ventas.Total.Add(v.Total)
		}
		for _, d := range v.Detalles {
			pid := d.ProductoID.String()
			if porProducto[pid] == nil {
				nombre := ""
				if d.Producto != nil {
					nombre = d.Producto.Nombre
				}
				porProducto[pid] = &dto.ProductoRanking{ProductoID: pid, Nombre: nombre}
			}
			porProducto[pid].Unidades += d.Cantidad
			porProducto[pid].Total = porProducto[pid].Total.Add(d.Subtotal)
		}
	}
	for _, c := range comprasMes {
		resp.ResumenMes.Compras.Cantidad++
		resp.ResumenMes.Compras.Total = resp.ResumenMes.Compras.Total.Add(c.Total)
		if !c.FechaCompra.Before(hoy) {
			resp.ResumenHoy.Compras.Cantidad++
			resp.ResumenHoy.Compras.Total = resp.ResumenHoy.Compras.Total.Add(c.Total)
		}
	}
	resp.ResumenMes.GananciaNeta = resp.ResumenMes.Ventas.Total.Sub(resp.ResumenMes.Compras.Total)

	resp.Inventario.TotalProductos = len(productos)
	resp.Inventario.ProductosBajoMinimoLista = []dto.StockAlertaItem{}
	resp.Inventario.ProductosSobreMaximoLista = []dto.StockAlertaItem{}
	for _, p := range productos {
		resp.Inventario.ValorTotal = resp.Inventario.ValorTotal.
			Add(p.PrecioUnitario.Mul(decimal.NewFromInt(int64(p.StockActual))))
		if p.StockActual < p.StockMinimo {
			resp.Inventario.ProductosBajoMinimo++
			resp.Inventario.ProductosBajoMinimoLista = append(resp.Inventario.ProductosBajoMinimoLista, dto.StockAlertaItem{
				ProductoID:  p.ID.String(),
				Nombre:      p.Nombre,
				StockActual: p.StockActual,
				StockMinimo: p.StockMinimo,
				Faltante:    p.StockMinimo - p.StockActual,
			})
		}
		if p.StockMaximo > 0 && p.StockActual > p.StockMaximo {
			resp.Inventario.ProductosSobreMaximo++
			resp.Inventario.ProductosSobreMaximoLista = append(resp.Inventario.ProductosSobreMaximoLista, dto.StockAlertaItem{
				ProductoID:  p.ID.String(),
				Nombre:      p.Nombre,
				StockActual: p.StockActual,
				StockMaximo: p.StockMaximo,
				Exceso:      p.StockActual - p.StockMaximo,
			})
		}
	}

	resp.Cartera.VentasPendientes = len(pendientes)
	for _, v := range pendientes {
		resp.Cartera.TotalPorCobrar = resp.Cartera.TotalPorCobrar.Add(v.SaldoPendiente)
	}

	resp.Top5Productos = rankingProductos(porProducto, 5)

	s.escribirCache(ctx, key, resp)
	return resp, nil
}

func ordenarPorDia(porDia map[string]*dto.PuntoDiario) []dto.PuntoDiario {
	out := make([]dto.PuntoDiario, 0, len(porDia))
	for _, p := range porDia {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}

func rankingProductos(porProducto map[string]*dto.ProductoRanking, top int) []dto.ProductoRanking {
	out := make([]dto.ProductoRanking, 0, len(porProducto))
	for _, p := range porProducto {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Unidades != out[j].Unidades {
			return out[i].Unidades > out[j].Unidades
		}
		return out[i].Nombre < out[j].Nombre
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}

func rankingVendedores(porVendedor map[string]*dto.VendedorRanking) []dto.VendedorRanking {
	out := make([]dto.VendedorRanking, 0, len(porVendedor))
	for _, v := range porVendedor {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Nombre < out[j].Nombre
	})
	return out
}
