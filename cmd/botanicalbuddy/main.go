package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/greenthumb-labs/botanicalbuddy/internal/ai"
	"github.com/greenthumb-labs/botanicalbuddy/internal/config"
	"github.com/greenthumb-labs/botanicalbuddy/internal/db"
	"github.com/greenthumb-labs/botanicalbuddy/internal/embedcache"
	"github.com/greenthumb-labs/botanicalbuddy/internal/handler"
	"github.com/greenthumb-labs/botanicalbuddy/internal/job"
	"github.com/greenthumb-labs/botanicalbuddy/internal/middleware"
	"github.com/greenthumb-labs/botanicalbuddy/internal/repo"
	"github.com/greenthumb-labs/botanicalbuddy/internal/schedule"
	"github.com/greenthumb-labs/botanicalbuddy/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "botanicalbuddy",
		Short: "botanicalbuddy backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run botanicalbuddy server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			dbc, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(dbc); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, dbc)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func buildGenerator(cfg config.AIConfig) (ai.IGenerator, error) {
	items := make([]ai.GeneratorEntry, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		if pc.Model == "" {
			continue
		}
		provider, err := ai.NewProvider(pc.Provider, pc.Data)
		if err != nil {
			return nil, fmt.Errorf("init generate provider %s: %w", pc.Provider, err)
		}
		items = append(items, ai.GeneratorEntry{
			Name:      pc.Provider + "/" + pc.Model,
			Generator: ai.NewGenerator(provider, pc.Model),
		})
	}
	gen := ai.NewGroupGenerator(items)
	if gen == nil {
		return nil, fmt.Errorf("no generate-capable ai provider configured")
	}
	return gen, nil
}

func buildEmbedder(cfg config.AIConfig, cacheRepo *repo.EmbeddingCacheRepo) (ai.IEmbedder, error) {
	items := make([]ai.EmbedderEntry, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		if pc.EmbedModel == "" {
			continue
		}
		provider, err := ai.NewEmbedProvider(pc.Provider, pc.Data)
		if err != nil {
			return nil, fmt.Errorf("init embed provider %s: %w", pc.Provider, err)
		}
		items = append(items, ai.EmbedderEntry{
			Name:     pc.EmbedModel,
			Embedder: ai.NewEmbedder(provider, pc.EmbedModel),
		})
	}
	embedder := ai.NewGroupEmbedder(items)
	if embedder == nil {
		return nil, fmt.Errorf("no embed-capable ai provider configured")
	}
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(
		embedder,
		cfg.LruCacheSize,
		time.Duration(cfg.LruCacheTTLMinutes)*time.Minute,
	)
	return embedder, nil
}

func runServer(cfg *config.Config, dbc *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.Float64("similarity_threshold", cfg.QA.SimilarityThreshold),
		zap.Int("providers", len(cfg.AI.Providers)),
	)

	plantRepo := repo.NewPlantRepo(dbc)
	qaRepo := repo.NewQARepo(dbc)
	cacheRepo := repo.NewEmbeddingCacheRepo(dbc)

	generator, err := buildGenerator(cfg.AI)
	if err != nil {
		return err
	}
	embedder, err := buildEmbedder(cfg.AI, cacheRepo)
	if err != nil {
		return err
	}
	agent := ai.NewAgent(generator, ai.AgentConfig{
		SystemMessage: cfg.AI.SystemMessage,
		Timeout:       cfg.AI.Timeout,
	})

	plantService := service.NewPlantService(plantRepo)
	qaService := service.NewQAService(plantService, qaRepo, embedder, agent, service.QAServiceConfig{
		SimilarityThreshold: cfg.QA.SimilarityThreshold,
		BestMatch:           cfg.QA.BestMatch,
		EmbeddingDim:        cfg.QA.EmbeddingDim,
		EmbedTimeout:        cfg.AI.Timeout,
		MaxInputChars:       cfg.AI.MaxInputChars,
	})

	deps := handler.RouterDeps{
		QA:        handler.NewQAHandler(qaService),
		Plants:    handler.NewPlantHandler(plantService),
		RateLimit: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			middleware.RequestID(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Jobs.EmbeddingCacheMaxAgeDays), cfg.Jobs.EmbeddingCacheCleanupSpec); err != nil {
		return fmt.Errorf("schedule cache cleanup: %w", err)
	}
	if err := scheduler.AddJob(job.NewPlantVectorBackfillJob(plantRepo, embedder, cfg.Jobs.PlantVectorBackfillBatch), cfg.Jobs.PlantVectorBackfillSpec); err != nil {
		return fmt.Errorf("schedule plant vector backfill: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
