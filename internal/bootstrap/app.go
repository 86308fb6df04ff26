package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/rueidis"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/extract"
	"creerlio-backend/internal/ingest"
	"creerlio-backend/internal/llm"
	openai "creerlio-backend/internal/llm/openai"
	"creerlio-backend/internal/mapping"
	"creerlio-backend/internal/pdf"
	"creerlio-backend/internal/permissions"
	"creerlio-backend/internal/resumes"
	"creerlio-backend/internal/services/health"
	"creerlio-backend/internal/shared/config"
	"creerlio-backend/internal/shared/server"
	"creerlio-backend/internal/shared/storage/db"
	"creerlio-backend/internal/shared/storage/object"
	localstore "creerlio-backend/internal/shared/storage/object/local"
	s3store "creerlio-backend/internal/shared/storage/object/s3"
	"creerlio-backend/internal/shared/telemetry"
	"creerlio-backend/internal/talents"
)

const mapboxTimeout = 15 * time.Second

// App holds shared dependencies and the router built from them.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Redis       rueidis.Client
	Store       object.Store
	LLM         llm.StructuredClient
	Pipeline    *ingest.Pipeline
	Health      *health.Service
	Permissions *permissions.Checker

	ResumesService    *resumes.Service
	BusinessesService *businesses.Service
	TalentsService    *talents.Service
	MappingService    *mapping.Service
	PDFService        *pdf.Service
}

// Build connects infrastructure, wires every service and mounts the routes.
// Dev-like environments fall back to in-memory repositories when the database
// is missing or unreachable.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg, Health: health.NewService(2 * time.Second)}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.Health.Register("database", sqlDB.PingContext)
	}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.LLM, err = buildLLM(cfg); err != nil {
		app.Close()
		return nil, err
	}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		client, err := mapping.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// The geocode cache is optional.
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
		} else {
			app.Redis = client
			app.Health.Register("redis", func(ctx context.Context) error {
				return client.Do(ctx, client.B().Ping().Build()).Error()
			})
		}
	}

	if err := buildServices(ctx, app); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM returns the OpenAI client, or the placeholder when the provider is
// disabled. A dev-like environment without an API key also gets the placeholder.
func buildLLM(cfg config.Config) (llm.StructuredClient, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && cfg.IsDevLike() {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"reason": "OPENAI_API_KEY empty"})
		return llm.PlaceholderClient{}, nil
	}
	return openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
		Logger:  telemetry.L(),
	})
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	var (
		resumeRepo     resumes.Repo
		businessRepo   businesses.Repo
		talentRepo     talents.Repo
		permissionRepo permissions.Repo
	)
	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		businessRepo = &businesses.PGRepo{DB: app.DB}
		talentRepo = &talents.PGRepo{DB: app.DB}
		permissionRepo = &permissions.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		businessRepo = businesses.NewMemoryRepo()
		talentRepo = talents.NewMemoryRepo()
		permissionRepo = permissions.NewMemoryRepo()
	}

	normalizer := ingest.NewNormalizer(app.LLM)
	app.Pipeline = ingest.NewPipeline(extract.New(), normalizer, telemetry.L())
	app.ResumesService = &resumes.Service{
		Repo:     resumeRepo,
		Store:    app.Store,
		Pipeline: app.Pipeline,
		Enhancer: normalizer,
		MaxBytes: cfg.MaxUploadBytes,
	}
	app.BusinessesService = businesses.NewService(businessRepo)
	app.TalentsService = talents.NewService(talentRepo, app.ResumesService)

	var geocoder mapping.Geocoder
	mapbox := mapping.NewClient(cfg.MapboxToken, cfg.MapboxBaseURL, cfg.MapboxCountry, mapboxTimeout)
	geocoder = mapbox
	if app.Redis != nil {
		geocoder = mapping.NewCachedGeocoder(mapbox, app.Redis, cfg.GeocodeCacheTTL)
	}
	app.MappingService = &mapping.Service{Geocoder: geocoder, Router: mapbox, Businesses: businessRepo}

	app.PDFService = pdf.NewService(
		pdf.NewChromeRenderer(cfg.ChromePath, cfg.PDFTimeout),
		app.Store,
		app.ResumesService,
		app.BusinessesService,
		pdf.ParsePaper(cfg.PDFPaper),
	)

	app.Permissions = permissions.NewChecker(permissionRepo)
	for _, userID := range cfg.SuperAdmins {
		if err := app.Permissions.AssignBusinessRole(ctx, userID, permissions.AnyBusiness, permissions.SuperAdmin); err != nil {
			return fmt.Errorf("seed super admin %s: %w", userID, err)
		}
	}

	businessHandler := businesses.NewHandler(app.BusinessesService)
	if cfg.EnforceRoles {
		businessHandler.WriteGuard = permissions.RequireBusinessRole(app.Permissions, permissions.BusinessWriteRoles, "id")
		businessHandler.AdminGuard = permissions.RequireBusinessRole(app.Permissions, permissions.BusinessAdminRoles, "id")
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          app.Health,
		ResumeHandler:   resumes.NewHandler(app.ResumesService),
		BusinessHandler: businessHandler,
		TalentHandler:   talents.NewHandler(app.TalentsService),
		MappingHandler:  mapping.NewHandler(app.MappingService),
		PDFHandler:      pdf.NewHandler(app.PDFService),
	})
	return nil
}
