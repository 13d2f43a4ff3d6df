package router

import (
	"straublot/internal/config"
	"straublot/internal/handler"
	"straublot/internal/infra"
	"straublot/internal/middleware"
	"straublot/internal/model"
	"straublot/internal/repository"
	"straublot/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← cached Planilha ← backend
// rdb may be nil; the read cache then stays in process.
func New(cfg *config.Config, backend *infra.PlanilhaBackend, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.NewIPRateLimiter(rate.Limit(1000.0/60), 200, "Muitas requisições. Tente novamente em instantes.")

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware()) // ~1000 req/min per IP

	// ── Storage ──────────────────────────────────────────────────────────────
	var planilha repository.Planilha
	if rdb != nil {
		planilha = repository.NewPlanilhaComCacheRedis(backend.Base, rdb, cfg.PlanilhaCacheTTL)
	} else {
		planilha = repository.NewPlanilhaComCache(backend.Base, cfg.PlanilhaCacheTTL)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	operacaoRepo := repository.NewOperacaoRepository(planilha)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	operacaoSvc := service.NewOperacaoService(operacaoRepo, cfg)
	dashboardSvc := service.NewDashboardService(operacaoRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	operacoesH := handler.NewOperacoesHandler(operacaoSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(handler.HealthDeps{
		Backend:  backend.Nome,
		Planilha: backend.Base,
		Redis:    rdb,
		Circuito: backend.EstadoCircuito,
	}))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.GET("/perfis", authH.Perfis)
		auth.POST("/login", middleware.LoginRateLimiter().Middleware(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/sessao", authH.Sessao)

		// Type-level gating (suprimento vs. caixa operations) happens in the service.
		lancamento := middleware.RequireModulo(model.ModuloOperacoesCaixa, model.ModuloSuprimento)
		historico := middleware.RequireModulo(model.ModuloHistorico)

		ops := v1.Group("/operacoes")
		{
			ops.POST("/simular", lancamento, operacoesH.Simular)
			ops.POST("", lancamento, operacoesH.Registrar)
			ops.GET("", historico, operacoesH.Listar)
			ops.GET("/exportar", historico, operacoesH.Exportar)
			ops.GET("/:linha/comprovante", historico, operacoesH.Comprovante)
		}

		v1.GET("/dashboard/caixa", middleware.RequireModulo(model.ModuloDashboardCaixa), dashboardH.Caixa)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
