package router

import (
	"time"

	"credipos/internal/config"
	"credipos/internal/handler"
	"credipos/internal/middleware"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Ventas      *handler.VentaHandler
	Compras     *handler.CompraHandler
	Productos   *handler.ProductoHandler
	Referencias *handler.ReferenciaHandler
	Permisos    *handler.PermisoHandler
	Reportes    *handler.ReporteHandler
}

// New builds the gin engine with the full middleware chain and the /v1 API.
// Route groups are gated by capability keys: the formulario URLs carried in
// the JWT.
func New(cfg *config.Config, auth service.AuthService, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.RateLimiter(300, time.Minute),
	)

	r.GET("/health", h.Health.Health)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")

	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)

	protegido := v1.Group("", middleware.JWTAuth(auth))

	ventas := protegido.Group("/ventas", middleware.RequireAcceso("/ventas"))
	{
		ventas.POST("", h.Ventas.Registrar)
		ventas.GET("", h.Ventas.Listar)
		ventas.GET("/:id", h.Ventas.Detalle)
		ventas.DELETE("/:id", h.Ventas.Eliminar)
		ventas.POST("/:id/abonos", h.Ventas.RegistrarAbono)
		ventas.GET("/:id/abonos", h.Ventas.ListarAbonos)
		ventas.GET("/:id/estado-cuenta", h.Ventas.EstadoCuentaPDF)
	}

	compras := protegido.Group("/compras", middleware.RequireAcceso("/compras"))
	{
		compras.POST("", h.Compras.Registrar)
		compras.GET("", h.Compras.Listar)
		compras.GET("/:id", h.Compras.Detalle)
		compras.PUT("/:id", h.Compras.Actualizar)
		compras.DELETE("/:id", h.Compras.Eliminar)
	}

	productos := protegido.Group("/productos", middleware.RequireAcceso("/productos"))
	{
		productos.POST("", h.Productos.Crear)
		productos.GET("", h.Productos.Listar)
		productos.GET("/:id", h.Productos.Detalle)
		productos.PUT("/:id", h.Productos.Actualizar)
		productos.PATCH("/:id", h.Productos.Actualizar)
		productos.DELETE("/:id", h.Productos.Eliminar)
		productos.GET("/:id/movimientos", h.Productos.Movimientos)
	}

	metodos := protegido.Group("/metodos-pago", middleware.RequireAcceso("/metodos-pago"))
	{
		metodos.POST("", h.Referencias.CrearMetodoPago)
		metodos.GET("", h.Referencias.ListarMetodosPago)
		metodos.PUT("/:id", h.Referencias.ActualizarMetodoPago)
		metodos.DELETE("/:id", h.Referencias.EliminarMetodoPago)
	}

	roles := protegido.Group("/roles", middleware.RequireAcceso("/roles"))
	{
		roles.POST("", h.Referencias.CrearRol)
		roles.GET("", h.Referencias.ListarRoles)
		roles.PUT("/:id", h.Referencias.ActualizarRol)
		roles.DELETE("/:id", h.Referencias.EliminarRol)
	}

	tipos := protegido.Group("/tipos-identificacion", middleware.RequireAcceso("/tipos-identificacion"))
	{
		tipos.POST("", h.Referencias.CrearTipoIdentificacion)
		tipos.GET("", h.Referencias.ListarTiposIdentificacion)
		tipos.PUT("/:id", h.Referencias.ActualizarTipoIdentificacion)
		tipos.DELETE("/:id", h.Referencias.EliminarTipoIdentificacion)
	}

	permisos := protegido.Group("/permisos", middleware.RequireAcceso("/permisos"))
	{
		permisos.GET("/formularios", h.Permisos.ListarFormularios)
		permisos.GET("", h.Permisos.Listar)
		permisos.GET("/rol/:rolId", h.Permisos.ListarPorRol)
		permisos.POST("", h.Permisos.Asignar)
		permisos.POST("/bulk", h.Permisos.AsignarBulk)
		permisos.DELETE("/:rolId", h.Permisos.RemoverPorRol)
		permisos.DELETE("/:rolId/:formularioId", h.Permisos.Remover)
	}

	usuarios := protegido.Group("/usuarios", middleware.RequireAcceso("/usuarios"))
	{
		usuarios.POST("", h.Auth.CrearUsuario)
		usuarios.GET("", h.Auth.ListarUsuarios)
		usuarios.DELETE("/:id", h.Auth.EliminarUsuario)
	}

	reportes := protegido.Group("/reportes", middleware.RequireAcceso("/reportes"))
	{
		reportes.GET("/ventas", h.Reportes.Ventas)
		reportes.GET("/compras", h.Reportes.Compras)
		reportes.GET("/dashboard", h.Reportes.Dashboard)
	}

	return r
}
