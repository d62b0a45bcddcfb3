// Package main is the entry point for Aura.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"aura-go/application"
	"aura-go/core/eventbus"
	"aura-go/domain/job"
	"aura-go/domain/segmentation"
	"aura-go/infrastructure/config"
	"aura-go/infrastructure/imageload"
	"aura-go/infrastructure/logging"
	"aura-go/infrastructure/processing"
	"aura-go/infrastructure/repository"
	"aura-go/presentation"
	"aura-go/resources"

	"fyne.io/fyne/v2/app"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	flag.Parse()

	cfg, cfgErr := config.Load(*configPath)

	// Initialize logging (dev: console only, prod: rotating file)
	logCfg := logging.DefaultConfig()
	logCfg.Dir = cfg.Log.Dir
	logCfg.AddSource = cfg.Log.AddSource
	level, levelErr := logging.ParseLevel(cfg.Log.Level)
	logCfg.Level = level

	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		// Fallback to stderr if logging setup fails
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	logger.Info("Starting Aura", "config", *configPath)
	if cfgErr != nil {
		logger.Warn("Using default configuration", "error", cfgErr)
	}
	if levelErr != nil {
		logger.Warn("Unknown log level, using info", "error", levelErr)
	}

	ctx := context.Background()

	// Initialize job history (MongoDB when reachable, memory otherwise)
	var jobRepo job.Repository = repository.NewMemoryJobRepository()
	if cfg.Mongo.Enabled {
		mongoCfg := repository.DefaultMongoDBConfig()
		mongoCfg.URI = cfg.Mongo.URI
		mongoCfg.Database = cfg.Mongo.Database
		mongoCfg.ConnectTimeout = cfg.Mongo.ConnectTimeout

		mongoDB, err := repository.NewMongoDB(ctx, mongoCfg, logger)
		if err != nil {
			logger.Warn("MongoDB unavailable, job history kept in memory", "error", err)
		} else {
			defer mongoDB.Close(ctx)
			mongoRepo := repository.NewMongoJobRepository(mongoDB, logger)
			if err := mongoRepo.EnsureIndexes(ctx); err != nil {
				logger.Warn("Job history indexes not created", "error", err)
			}
			jobRepo = mongoRepo
		}
	}
	jobService := job.NewService(jobRepo)

	// Initialize processing client
	var client processing.Client = processing.NewNoOpClient()
	if cfg.Processing.Enabled {
		clientCfg := processing.DefaultClientConfig()
		clientCfg.BaseURL = cfg.Processing.BaseURL
		clientCfg.Timeout = cfg.Processing.Timeout
		clientCfg.HealthInterval = cfg.Processing.HealthInterval
		clientCfg.Logger = logger
		client = processing.NewHTTPClient(clientCfg)
	}
	defer client.Close()

	// Load algorithm catalog
	registry := segmentation.NewRegistry()
	if err := segmentation.NewLoader(registry).LoadFromFS(resources.AlgorithmFiles); err != nil {
		logger.Error("Failed to load algorithms", "error", err)
		os.Exit(1)
	}
	logger.Info("Algorithms loaded", "count", registry.Count())

	// Initialize event bus
	eventBus := eventbus.NewWithLogger(256, logger)
	defer eventBus.Close()

	// Initialize coordinator
	coordinator := application.NewCoordinator(&application.CoordinatorConfig{
		EventBus: eventBus,
		Registry: registry,
		Jobs:     jobService,
		Loader: imageload.New(&imageload.Config{
			Timeout:  cfg.Image.Timeout,
			MaxBytes: cfg.Image.MaxBytes,
			Logger:   logger,
		}),
		Client:       client,
		Slots:        cfg.Canvas.Slots,
		MarkerRadius: cfg.Canvas.MarkerRadius,
		Logger:       logger,
	})
	coordinator.Start()
	defer coordinator.Stop()

	// Initialize UI event bridge
	bridge := presentation.NewUIEventBridge(&presentation.BridgeConfig{
		Coordinator: coordinator,
		EventBus:    eventBus,
		Logger:      logger,
	})
	defer bridge.Close()

	// Initialize Fyne app
	fyneApp := app.NewWithID("io.aura.segmentation")
	fyneApp.SetIcon(resources.GetAppIcon())

	mainWindow := presentation.NewMainWindow(&presentation.MainWindowConfig{
		App:    fyneApp,
		Bridge: bridge,
		Logger: logger,
	})
	defer mainWindow.Cleanup()

	// Show and run
	mainWindow.Show()
	fyneApp.Run()

	// Force exit if cleanup hangs
	go func() {
		time.Sleep(10 * time.Second)
		logger.Warn("Shutdown timeout, forcing exit")
		os.Exit(0)
	}()

	logger.Info("Application shutdown complete")
}
