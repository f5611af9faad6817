package router

import (
	"time"

	"liquidaciontextil/internal/config"
	"liquidaciontextil/internal/handler"
	"liquidaciontextil/internal/infra"
	"liquidaciontextil/internal/metrics"
	"liquidaciontextil/internal/middleware"
	"liquidaciontextil/internal/repository"
	"liquidaciontextil/internal/service"
	"liquidaciontextil/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide resources built by the composition root.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Dispatcher *worker.Dispatcher
	SMTPCB     *infra.CircuitBreaker
	Metrics    *metrics.Recorder
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
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
	r.Use(d.Metrics.GinMiddleware())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	clienteRepo := repository.NewClienteRepository(d.DB)
	liquidacionRepo := repository.NewLiquidacionRepository(d.DB)
	rolloRepo := repository.NewRolloRepository(d.DB)
	espigaRepo := repository.NewEspigaRepository(d.DB)
	configRepo := repository.NewConfiguracionRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	defaults := service.DefaultsConfiguracion(cfg)
	txTimeout := cfg.TxTimeout()
	numerador := service.NewNumerador(configRepo, rolloRepo, espigaRepo, defaults)

	clienteSvc := service.NewClienteService(clienteRepo, txTimeout)
	liquidacionSvc := service.NewLiquidacionService(
		liquidacionRepo, clienteRepo, configRepo, numerador, d.Dispatcher, defaults, d.Metrics, txTimeout,
	)
	rolloSvc := service.NewRolloService(liquidacionRepo, rolloRepo, espigaRepo, numerador, d.Metrics, txTimeout)
	espigaSvc := service.NewEspigaService(liquidacionRepo, rolloRepo, espigaRepo, numerador, txTimeout)
	configSvc := service.NewConfiguracionService(configRepo, defaults, txTimeout)

	// ── Handlers ─────────────────────────────────────────────────────────────
	clientesH := handler.NewClientesHandler(clienteSvc)
	liquidacionesH := handler.NewLiquidacionesHandler(liquidacionSvc)
	rollosH := handler.NewRollosHandler(rolloSvc)
	espigasH := handler.NewEspigasHandler(espigaSvc)
	configH := handler.NewConfiguracionHandler(configSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.SMTPCB))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		liqs := v1.Group("/liquidaciones")
		{
			liqs.POST("", liquidacionesH.Crear)
			liqs.GET("", liquidacionesH.Listar)
			liqs.GET("/:liquidacionId", liquidacionesH.ObtenerPorID)
			liqs.PUT("/:liquidacionId", liquidacionesH.Actualizar)
			liqs.DELETE("/:liquidacionId", liquidacionesH.Eliminar)
			liqs.PATCH("/:liquidacionId/estado", liquidacionesH.ActualizarEstado)
			liqs.GET("/:liquidacionId/pdf", liquidacionesH.DescargarPDF)
			liqs.POST("/:liquidacionId/enviar", liquidacionesH.Enviar)

			liqs.POST("/:liquidacionId/rollos", rollosH.Crear)
			liqs.PUT("/:liquidacionId/rollos/:rolloId", rollosH.Actualizar)
			liqs.DELETE("/:liquidacionId/rollos/:rolloId", rollosH.Eliminar)
			liqs.POST("/:liquidacionId/rollos/:rolloId/duplicar", rollosH.Duplicar)
		}

		rollos := v1.Group("/rollos")
		{
			rollos.POST("/:rolloId/espigas", espigasH.Crear)
			rollos.PUT("/:rolloId/espigas/:espigaId", espigasH.Actualizar)
			rollos.DELETE("/:rolloId/espigas/:espigaId", espigasH.Eliminar)
		}

		conf := v1.Group("/configuracion")
		{
			conf.GET("", configH.Obtener)
			conf.PUT("", configH.Actualizar)
			conf.GET("/siguiente-numero", configH.SiguienteNumero)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
