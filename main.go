package main

import (
	"context"
	"time"

	"mccb-go/internal/analytics"
	"mccb-go/internal/config"
	"mccb-go/internal/database"
	logger "mccb-go/internal/logging"
	"mccb-go/internal/models"
	"mccb-go/internal/parser"
	"mccb-go/internal/repository"
	"mccb-go/internal/router"
	"mccb-go/internal/services"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(logger.DefaultRotation("."))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Rebuild the logger with the configured rotation settings.
	logConf := config.Conf.Logging
	rebuilt, err := logger.Init(logger.Rotation{
		Directory:  logConf.Directory,
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		log.Fatal("Failed to initialize configured logger", zap.Error(err))
	}
	log.Sync()
	log = rebuilt
	defer log.Sync()

	// Initialize Database
	database.Init(log)

	// Load the instrument battery at startup
	battery, err := models.LoadBattery(config.Conf.Analytics.BatteryFile)
	if err != nil {
		log.Warn("Failed to load battery file, using built-in battery",
			zap.String("file", config.Conf.Analytics.BatteryFile),
			zap.Error(err))
		battery = models.DefaultBattery()
	}

	engines := analytics.NewManager(log, battery)
	resultParser := parser.New(log, battery)
	customers := repository.NewCustomerStore(config.Conf.Analytics.CustomersFile, log)

	// Background snapshot sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshotter := services.NewSnapshotter(log, engines,
		time.Duration(config.Conf.Analytics.SnapshotInterval)*time.Minute)
	snapshotter.Start(ctx)

	// Setup router, passing the logger to it
	r := router.Setup(log, resultParser, engines, customers)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
