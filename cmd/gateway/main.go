// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package main provides the entry point for the semantic gateway server.
// It loads configuration, wires the cache, router, batcher, and LLM
// provider collaborators, and serves the HTTP surface described in
// spec.md §6.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/traylinx/semantic-gateway/internal/batcher"
	"github.com/traylinx/semantic-gateway/internal/cache"
	"github.com/traylinx/semantic-gateway/internal/catalog"
	"github.com/traylinx/semantic-gateway/internal/config"
	"github.com/traylinx/semantic-gateway/internal/embedding"
	"github.com/traylinx/semantic-gateway/internal/gatewayapi"
	"github.com/traylinx/semantic-gateway/internal/llmprovider"
	"github.com/traylinx/semantic-gateway/internal/logging"
	"github.com/traylinx/semantic-gateway/internal/optimizer"
	"github.com/traylinx/semantic-gateway/internal/router"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func init() {
	logging.SetupBaseLogger()
}

func main() {
	configPath := flag.String("config", "./gateway.yaml", "path to the gateway's YAML config file")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.WithError(err).Fatal("failed to get working directory")
	}

	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	if err := logging.ConfigureLogOutput(cfg.LoggingToFile, cfg.LogDir); err != nil {
		log.WithError(err).Warn("failed to configure log output, continuing on stdout")
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.WithFields(log.Fields{"version": Version, "commit": Commit, "build_date": BuildDate}).Info("starting semantic gateway")

	gw := buildGateway(cfg)
	gw.Start()
	defer gw.Stop()

	engine := gin.New()
	engine.Use(gin.Recovery())
	gw.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Handler: engine,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("gateway server failed")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	log.Info("shutdown signal received, draining")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown did not complete cleanly")
	}
}

// buildGateway constructs every collaborator in the dependency order
// spec.md §2 lays out: catalog -> router; embedding + cache policy ->
// cache; cache + router + batcher -> gatewayapi.
func buildGateway(cfg config.Config) *gatewayapi.Gateway {
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.WithError(err).Warn("falling back to the built-in model catalog")
		cat = catalog.Default()
	}

	provider := buildEmbeddingProvider(cfg)

	c := cache.New(provider, cfg.Cache)
	r := router.New(cat, cfg.Router)
	b := batcher.New(cat, cfg.Batcher)
	opt := optimizer.New(c, cfg.Optimizer)

	pricing := llmprovider.PricingTable(cfg.Pricing)
	var llm llmprovider.Provider
	if cfg.LLMProvider.BaseURL != "" {
		llm = llmprovider.NewHTTPProvider(cfg.LLMProvider.BaseURL, cfg.LLMProvider.APIKey, pricing)
	} else {
		log.Warn("no LLM provider base URL configured, using deterministic offline provider")
		llm = llmprovider.NewDeterministicProvider(pricing)
	}

	return gatewayapi.New(c, r, b, opt, cat, llm)
}

// buildEmbeddingProvider resolves the configured model's files through a
// embedding.ModelLocator and wires the real ONNX engine when they're
// present, falling back to the dependency-free hash provider otherwise
// (local development, tests, or a degraded-mode deployment).
func buildEmbeddingProvider(cfg config.Config) embedding.Provider {
	locator := embedding.NewModelLocator()
	if cfg.EmbeddingModelBaseDir != "" {
		locator.BaseDir = cfg.EmbeddingModelBaseDir
	}

	modelName := cfg.EmbeddingModel
	if modelName == "" {
		modelName = embedding.DefaultModelName
	}

	if !locator.ModelExists(modelName) {
		log.Warnf("embedding model %q not found under %s; using deterministic hash provider", modelName, locator.BaseDir)
		return embedding.NewHashProvider(cfg.EmbeddingDimension)
	}

	engineCfg := embedding.Config{
		ModelPath:         locator.GetModelPath(modelName),
		VocabPath:         locator.GetVocabPath(modelName),
		SharedLibraryPath: locator.GetSharedLibraryPath(),
	}

	engine, err := embedding.NewEngine(engineCfg)
	if err != nil {
		log.WithError(err).Warn("failed to construct ONNX embedding engine, using deterministic hash provider")
		return embedding.NewHashProvider(cfg.EmbeddingDimension)
	}

	if err := engine.Initialize(engineCfg.SharedLibraryPath); err != nil {
		log.WithError(err).Warn("failed to initialize ONNX runtime, using deterministic hash provider")
		return embedding.NewHashProvider(cfg.EmbeddingDimension)
	}

	log.Infof("embedding engine initialized with model: %s", modelName)
	return engine
}
