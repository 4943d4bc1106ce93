// Package bootstrap assembles the application dependency graph once so
// every entrypoint wires the same way.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/cloudimport"
	"resume-pipeline/internal/history"
	"resume-pipeline/internal/pipeline"
	"resume-pipeline/internal/services/health"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/server"
	"resume-pipeline/internal/shared/storage/db"
	"resume-pipeline/internal/uploads"
)

// App holds shared dependencies for a running process.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	HistoryRepo    history.Repo
	Metrics        *metrics.Pipeline
	UploadsService *uploads.Service
	UploadsHandler *uploads.Handler
	CloudImport    *cloudimport.Service
	Health         *health.Service
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var histRepo history.Repo
	if sqlDB != nil {
		histRepo = &history.PGRepo{DB: sqlDB}
	} else {
		histRepo = history.NewMemoryRepo()
	}

	m := metrics.NewPipeline()

	uploadsSvc := uploads.NewService(pipeline.Options{
		MaxFileSizeBytes:     cfg.MaxFileSizeBytes,
		DisableMultipleFiles: cfg.DisableMultipleFiles,
		DisableLivePreview:   cfg.DisableLivePreview,
	}, histRepo, m)

	app := &App{
		Config:         cfg,
		DB:             sqlDB,
		HistoryRepo:    histRepo,
		Metrics:        m,
		UploadsService: uploadsSvc,
		UploadsHandler: uploads.NewHandler(uploadsSvc),
		CloudImport: cloudimport.NewService(
			cloudimport.ProviderConfig{
				ClientID:     cfg.GDriveClientID,
				ClientSecret: cfg.GDriveClientSecret,
				RedirectURL:  cfg.GDriveRedirectURL,
			},
			cloudimport.ProviderConfig{
				ClientID:     cfg.DropboxClientID,
				ClientSecret: cfg.DropboxClientSecret,
				RedirectURL:  cfg.DropboxRedirectURL,
			},
		),
		Health: health.NewService(sqlDB),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Uploads:     app.UploadsHandler,
		CloudImport: app.CloudImport,
		Health:      app.Health,
		Metrics:     m,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable, using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch env {
	case "dev", "local":
		return true
	default:
		return false
	}
}
