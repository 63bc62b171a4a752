package router

import (
	"time"

	"github.com/Neakz-star/La-Desesperanza/internal/config"
	"github.com/Neakz-star/La-Desesperanza/internal/handler"
	"github.com/Neakz-star/La-Desesperanza/internal/middleware"
	"github.com/Neakz-star/La-Desesperanza/internal/realtime"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"
	"github.com/Neakz-star/La-Desesperanza/internal/service"
	"github.com/Neakz-star/La-Desesperanza/internal/session"
	"github.com/Neakz-star/La-Desesperanza/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *realtime.Hub) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Sessions / cart ──────────────────────────────────────────────────────
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	store := session.NewRedisStore(rdb, sessionTTL)
	carrito := session.NewRedisCarrito(rdb, sessionTTL)
	r.Use(middleware.Session(store))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	compraRepo := repository.NewCompraRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo)
	saldoSvc := service.NewSaldoService(usuarioRepo)
	productoSvc := service.NewProductoService(productoRepo, rdb)

	// Worker dispatcher — injected into the checkout for async receipts
	dispatcher := worker.NewDispatcher(rdb)
	compraSvc := service.NewCompraService(usuarioRepo, productoRepo, compraRepo, dispatcher, cfg.TrustedTotal, cfg.NombreNegocio)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, store)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	saldoH := handler.NewSaldoHandler(saldoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	carritoH := handler.NewCarritoHandler(carrito, int(sessionTTL.Seconds()))
	comprasH := handler.NewComprasHandler(compraSvc, carrito)
	ubicacionesH := handler.NewUbicacionesHandler(hub)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)
	r.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/register", authH.Register)
	r.GET("/check-auth", authH.CheckAuth)
	r.GET("/productos", productosH.Listar)
	r.GET("/productos/por-temporada", productosH.PorTemporada)
	r.GET("/productos/:id", productosH.Obtener)

	// Session cart — works for anonymous visitors too
	carritoGroup := r.Group("/carrito")
	{
		carritoGroup.GET("", carritoH.Listar)
		carritoGroup.POST("/agregar", carritoH.Agregar)
		carritoGroup.DELETE("/eliminar/:id", carritoH.Eliminar)
		carritoGroup.DELETE("/vaciar", carritoH.Vaciar)
		carritoGroup.GET("/total", carritoH.Total)
	}

	// Presence stream
	r.GET("/ubicaciones/stream", ubicacionesH.Stream)
	r.POST("/ubicaciones/coordenadas", ubicacionesH.Coordenadas)

	// Authenticated
	authd := r.Group("", middleware.RequireAuth())
	{
		authd.POST("/logout", authH.Logout)
		authd.GET("/perfil", authH.Perfil)
		authd.GET("/saldo", saldoH.Obtener)
		authd.POST("/saldo/agregar", saldoH.Agregar)
		authd.POST("/carrito/comprar", comprasH.Comprar)
		authd.GET("/carrito/historial", comprasH.Historial)
		authd.GET("/carrito/compra/:id", comprasH.Detalle)
		authd.GET("/carrito/ticket/:compraId", comprasH.Ticket)
	}

	// Admin back-office
	admin := r.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.GET("/productos", productosH.ListarTodos)
		admin.POST("/productos", productosH.Crear)
		admin.PUT("/productos/:id", productosH.Actualizar)
		admin.POST("/productos/:id/toggle-active", productosH.ToggleActivo)
		admin.DELETE("/productos/:id", productosH.Eliminar)
		admin.GET("/example-images", productosH.EjemplosImagenes)

		admin.GET("/users", usuariosH.Listar)
		admin.POST("/users/:id/toggle-admin", usuariosH.ToggleAdmin)
		admin.DELETE("/users/:id", usuariosH.Eliminar)

		admin.GET("/compras", comprasH.ListarTodas)
		admin.GET("/compras/:id", comprasH.Detalle)
		admin.GET("/ticket/:compraId", comprasH.Ticket)
	}

	r.POST("/validate-image-url", middleware.RequireAuth(), middleware.RequireAdmin(), productosH.ValidarImagenURL)

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
