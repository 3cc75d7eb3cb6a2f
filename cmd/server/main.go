package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/handlers"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/filestore"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/kserve"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/modelapp"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/ollama"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/openaicompat"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/postgres"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/rediscache"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/secondary/sqlite"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/services"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	repo, err := newRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("open generation store: %v", err)
	}
	defer repo.Close()

	store, err := filestore.New(cfg.Storage.OutputDir)
	if err != nil {
		log.Fatalf("open artifact store: %v", err)
	}

	enhancer := newEnhancer(cfg)

	// Redis prompt cache (Optional - based on config)
	var cache ports.PromptCache
	if cfg.Redis.Enabled && enhancer != nil {
		rc, err := rediscache.New(ctx, &cfg.Redis, enhancer.Name()+":"+enhancerModel(cfg))
		if err != nil {
			log.Warnf("Redis cache init failed (continuing without prompt cache): %v", err)
		} else {
			defer rc.Close()
			cache = rc
			log.Info("Redis prompt cache initialized")
		}
	} else {
		log.Info("prompt cache disabled")
	}

	// KServe endpoint discovery (Optional - based on config)
	imageURL, modelURL := cfg.Apps.TextToImageURL, cfg.Apps.ImageToModelURL
	if cfg.KServe.Enabled {
		client, err := kserve.NewKServeClient(&cfg.KServe)
		if err != nil {
			log.Warnf("KServe client init failed (using configured app URLs): %v", err)
		} else {
			imageURL = resolveAppURL(ctx, client, cfg.KServe.Namespace, cfg.KServe.TextToImageName, imageURL)
			modelURL = resolveAppURL(ctx, client, cfg.KServe.Namespace, cfg.KServe.ImageToModelName, modelURL)
		}
	} else {
		log.Info("KServe integration disabled")
	}
	if imageURL == "" || modelURL == "" {
		log.Warn("model app endpoints are not fully configured; generations will fail until TEXT_TO_IMAGE_URL and IMAGE_TO_3D_URL are set")
	}

	images := modelapp.NewImageGenerator(imageURL, &cfg.Apps)
	models := modelapp.NewModelGenerator(modelURL, &cfg.Apps)

	collector := metrics.NewCollector("text3d")

	// Core Services (Application Layer)
	generationSvc := services.NewGenerationService(repo, store, enhancer, cache, images, models, collector, services.GenerationOptions{
		Timeout:       cfg.Pipeline.Timeout,
		MaxConcurrent: cfg.Pipeline.MaxConcurrent,
		ModelFormat:   cfg.Apps.ModelFormat,
	})
	historySvc := services.NewHistoryService(repo, store)
	statusSvc := services.NewStatusService(enhancer, images, models, repo, store, cfg.Apps.APIKey != "")

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(generationSvc, historySvc, statusSvc, version)
	router := newRouter(ctx, cfg, h, repo, collector)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func newRepository(ctx context.Context, cfg *config.Config) (ports.GenerationRepository, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return postgres.NewGenerationRepository(pool), nil
	default:
		repo, err := sqlite.NewGenerationRepository(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.Storage.SQLitePath).Info("sqlite memory database opened")
		return repo, nil
	}
}

func newEnhancer(cfg *config.Config) ports.PromptEnhancer {
	switch cfg.Enhancer.Provider {
	case config.EnhancerOllama:
		log.WithField("model", cfg.Enhancer.OllamaModel).Info("using Ollama prompt enhancer")
		return ollama.NewEnhancer(&cfg.Enhancer)
	case config.EnhancerOpenAI:
		log.WithField("model", cfg.Enhancer.OpenAIModel).Info("using OpenAI-compatible prompt enhancer")
		return openaicompat.NewEnhancer(&cfg.Enhancer)
	default:
		log.Info("prompt enhancement disabled")
		return nil
	}
}

func enhancerModel(cfg *config.Config) string {
	if cfg.Enhancer.Provider == config.EnhancerOpenAI {
		return cfg.Enhancer.OpenAIModel
	}
	return cfg.Enhancer.OllamaModel
}

func resolveAppURL(ctx context.Context, client ports.KServeClient, namespace, name, fallback string) string {
	if name == "" || !client.IsAvailable() {
		return fallback
	}

	rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url, err := client.ResolveURL(rctx, namespace, name)
	if err != nil {
		log.WithError(err).WithField("inference_service", name).Warn("resolve model app via KServe failed")
		return fallback
	}
	log.WithFields(log.Fields{"inference_service": name, "url": url}).Info("model app resolved via KServe")
	return url
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
