package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rmcgill/roomstage/internal/api"
	"github.com/rmcgill/roomstage/internal/catalog"
	appconfig "github.com/rmcgill/roomstage/internal/config"
	"github.com/rmcgill/roomstage/internal/design"
	"github.com/rmcgill/roomstage/internal/planner"
	"github.com/rmcgill/roomstage/internal/repository/postgres"
	"github.com/rmcgill/roomstage/internal/storage"
	"github.com/rmcgill/roomstage/internal/style"
	"github.com/rmcgill/roomstage/internal/vision"
	"github.com/rmcgill/roomstage/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 service")
	}

	designRepo := postgres.NewPostgresDesignRepository(db)
	catalogRepo := postgres.NewPostgresCatalogRepository(db)

	// The catalog and style taxonomy load once here and are read-only for
	// the life of the process; request handling shares them without locks
	index, err := catalog.Load(context.Background(), catalogRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load furniture catalog")
	}
	log.Info().Int("items", index.Len()).Msg("Furniture catalog loaded")

	styles := style.NewResolver()

	analyzerCfg := vision.DefaultConfig()
	analyzerCfg.MinWidth = cfg.Analyzer.MinImageWidth
	analyzerCfg.MinHeight = cfg.Analyzer.MinImageHeight
	analyzerCfg.FloorConfidenceMin = cfg.Analyzer.FloorConfidenceMin
	analyzerCfg.RoomTypeConfidenceMin = cfg.Analyzer.RoomTypeConfidenceMin
	analyzerCfg.RoomWidthMeters = cfg.Analyzer.RoomWidthMeters
	analyzer := vision.NewAnalyzer(analyzerCfg)

	plannerCfg := planner.DefaultConfig()
	plannerCfg.OverlapTolerance = cfg.Planner.OverlapTolerance
	plannerCfg.Alternatives = cfg.Planner.Alternatives

	sessionSvc := design.NewSessionService(s3Service, designRepo, analyzer, styles, index, plannerCfg)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Roomstage API", "1.0.0")
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = "1.0.0"
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(router, humaAPI, s3Service, designRepo, sessionSvc, styles)

	router.Handle("/metrics", promhttp.Handler())

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting Roomstage API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
