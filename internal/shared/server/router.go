package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/mapping"
	"creerlio-backend/internal/pdf"
	"creerlio-backend/internal/resumes"
	"creerlio-backend/internal/services/health"
	"creerlio-backend/internal/shared/config"
	"creerlio-backend/internal/shared/metrics"
	"creerlio-backend/internal/shared/server/middleware"
	"creerlio-backend/internal/shared/server/respond"
	"creerlio-backend/internal/talents"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupIngest  = "INGEST"
	uploadRoute      = "/api/v1/resumes"
	enhanceRoute     = "/api/v1/resumes/:id/enhance"
)

// RouterDeps contains the handlers to mount. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	ResumeHandler   *resumes.Handler
	BusinessHandler *businesses.Handler
	TalentHandler   *talents.Handler
	MappingHandler  *mapping.Handler
	PDFHandler      *pdf.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		metrics.Middleware(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(0)
	}
	healthHandler := func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	}

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "Creerlio Platform API", "status": "healthy"})
	})
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.BusinessHandler != nil {
		deps.BusinessHandler.RegisterRoutes(api)
	}
	if deps.TalentHandler != nil {
		deps.TalentHandler.RegisterRoutes(api)
	}
	if deps.MappingHandler != nil {
		deps.MappingHandler.RegisterRoutes(api)
	}
	if deps.PDFHandler != nil {
		deps.PDFHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig puts the routes that call the LLM, upload and enhance, in one
// shared stricter bucket.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			rateGroupIngest:  {Rate: cfg.IngestLimitRPS, Burst: cfg.IngestLimitBurst},
		},
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			switch c.FullPath() {
			case uploadRoute, enhanceRoute:
				return rateGroupIngest
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
