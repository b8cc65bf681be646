package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI is the terminal front end of the dashboard. It renders the views
// published by the dashboard controller and sends user actions back to it.
type TUI struct {
	dashboard service.DashboardService
	driveLink service.DriveLinkJob
	drive     adapter.DriveAdapter
	exportDir string
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// New creates a [TUI]. CSV exports are written into exportDir.
func New(services *service.ClientServices, drive adapter.DriveAdapter, exportDir string, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil || services.Dashboard == nil {
		return nil, errors.New("tui: dashboard service is required")
	}

	return &TUI{
		dashboard: services.Dashboard,
		driveLink: services.DriveLink,
		drive:     drive,
		exportDir: exportDir,
		buildInfo: buildInfo,
		logger:    log.GetChildLogger(),
	}, nil
}

// Run blocks until the user quits, the controller stops publishing views
// or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	views, stop := t.dashboard.Watch()
	defer stop()
	if t.driveLink != nil {
		defer t.driveLink.Stop()
	}

	root := NewRootModel(ctx, t, views)
	final, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}

	if result, ok := final.(RootModel); ok && result.viewsClosed {
		t.logger.Info().Msg("dashboard stopped publishing views")
		return nil
	}

	t.logger.Info().Msg("user quit")
	return nil
}
