package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
)

// Polling defaults of the storage authorization flow.
const (
	DefaultDriveLinkInterval = 2 * time.Second
	DefaultDriveLinkTimeout  = 5 * time.Minute
)

// DriveLinkJob waits in the background for a storage authorization flow to
// complete and stores the issued credential.
type DriveLinkJob interface {
	// Start stops any running job and polls the flow identified by state
	// every interval until it completes, fails or the timeout elapses.
	Start(ctx context.Context, state string, interval time.Duration)

	// Stop cancels the job and blocks until it has exited.
	Stop()
}

type driveLinkJob struct {
	drive     adapter.DriveAdapter
	dashboard DashboardService
	timeout   time.Duration
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDriveLinkJob creates an idle DriveLinkJob.
func NewDriveLinkJob(drive adapter.DriveAdapter, dashboard DashboardService, logger *logger.Logger) DriveLinkJob {
	return &driveLinkJob{drive: drive, dashboard: dashboard, timeout: DefaultDriveLinkTimeout, logger: logger}
}

func (j *driveLinkJob) Start(ctx context.Context, state string, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultDriveLinkInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithTimeout(ctx, j.timeout)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		defer cancel()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if j.poll(jobCtx, state) {
					return
				}
			}
		}
	}()
}

// poll reports whether the job is finished.
func (j *driveLinkJob) poll(ctx context.Context, state string) bool {
	status, err := j.drive.AuthStatus(ctx, state)
	if err != nil {
		if errors.Is(err, adapter.ErrBadRequest) || errors.Is(err, adapter.ErrNotFound) {
			j.logger.Warn().Err(err).Msg("storage authorization flow expired")
			return true
		}
		j.logger.Debug().Err(err).Msg("polling storage authorization failed")
		return false
	}
	if status.Status != models.AuthComplete || status.Credential == "" {
		return false
	}

	if err = j.dashboard.SetDriveCredential(ctx, status.Credential); err != nil {
		j.logger.Err(err).Str("func", "driveLinkJob.poll").Msg("storing storage credential failed")
	}
	return true
}

func (j *driveLinkJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
