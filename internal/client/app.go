package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/internal/workers"
)

// App runs the dashboard controller and the terminal UI as one worker
// group. The UI is the primary worker: quitting it stops the controller.
type App struct {
	services *service.ClientServices
	ui       workers.Worker
	storages *store.ClientStorages
	closers  []io.Closer
	logger   *logger.Logger
}

// NewApp creates the client application. closers are closed after the
// workers stopped, after the local storage.
func NewApp(services *service.ClientServices, ui workers.Worker, storages *store.ClientStorages, log *logger.Logger, closers ...io.Closer) (*App, error) {
	if services == nil || services.Dashboard == nil {
		return nil, errors.New("client: dashboard service is required")
	}
	if ui == nil {
		return nil, errors.New("client: ui is required")
	}

	return &App{
		services: services,
		ui:       ui,
		storages: storages,
		closers:  closers,
		logger:   log,
	}, nil
}

// Run blocks until the user quits or the process receives SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.close()

	err := workers.NewWorkers(a.logger).
		Add("dashboard", workers.Func(a.services.Dashboard.Run)).
		AddPrimary("tui", a.ui).
		Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("client stopped: %w", err)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}

func (a *App) close() {
	if a.services.DriveLink != nil {
		a.services.DriveLink.Stop()
	}

	if a.storages != nil && a.storages.LocalStorage != nil {
		if err := a.storages.LocalStorage.Close(); err != nil {
			a.logger.Err(err).Msg("error closing local storage")
		}
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Err(err).Msg("error closing resource")
		}
	}
}
