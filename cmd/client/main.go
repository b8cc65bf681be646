package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/client"
	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/internal/tui"
	"github.com/MKhiriev/lks-registry/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log, logFile := logger.NewClientLogger("lks-client", logger.FileOutput{
		Path:       cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})

	driveAdapter, err := adapter.NewDriveAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create drive adapter")
	}

	localStorage, err := store.NewClientStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	services := service.NewClientServices(cfg, localStorage, driveAdapter, log)

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	ui, err := tui.New(services, driveAdapter, exportDir, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, localStorage, log, logFile)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "client run error: %v\n", err)
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
