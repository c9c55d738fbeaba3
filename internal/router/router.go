package router

import (
	"github.com/gin-gonic/gin"

	"spedflow/internal/config"
	"spedflow/internal/handler"
	"spedflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	healthH *handler.HealthHandler,
	empresaH *handler.EmpresaHandler,
	uploadH *handler.UploadHandler,
	runH *handler.RunHandler,
	taxH *handler.TaxHandler,
	exportH *handler.ExportHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/sped/files", uploadH.Upload)
	v1.GET("/runs/:run_id", runH.GetByID)

	empresas := v1.Group("/empresas")
	empresas.GET("", empresaH.List)
	empresas.POST("", empresaH.Create)
	empresas.GET("/:id", empresaH.GetByID)
	empresas.POST("/:id/runs", runH.Create)
	empresas.POST("/:id/tributacao", taxH.ImportTributacao)
	empresas.GET("/:id/tributacao/pendentes", taxH.ListPendentes)
	empresas.PUT("/:id/tributacao/aliquotas", taxH.ResolveRates)
	empresas.POST("/:id/fornecedores", taxH.ImportFornecedores)
	empresas.GET("/:id/export", exportH.Export)

	return r
}
