// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyDrive отвечает на AuthStatus заранее заданной последовательностью.
type spyDrive struct {
	adapter.DriveAdapter

	mu      sync.Mutex
	replies []func() (models.AuthStatus, error)
	calls   atomic.Int64
}

func (d *spyDrive) AuthStatus(_ context.Context, _ string) (models.AuthStatus, error) {
	n := d.calls.Add(1)

	d.mu.Lock()
	defer d.mu.Unlock()
	if int(n) > len(d.replies) {
		return models.AuthStatus{Status: models.AuthPending}, nil
	}
	return d.replies[n-1]()
}

// spyDashboard records stored credentials.
type spyDashboard struct {
	DashboardService

	mu          sync.Mutex
	credentials []string
}

func (d *spyDashboard) SetDriveCredential(_ context.Context, credential string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.credentials = append(d.credentials, credential)
	return nil
}

func (d *spyDashboard) stored() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.credentials...)
}

func pending() (models.AuthStatus, error) {
	return models.AuthStatus{Status: models.AuthPending}, nil
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestDriveLinkJob_StoresCredentialOnComplete(t *testing.T) {
	drive := &spyDrive{replies: []func() (models.AuthStatus, error){
		pending,
		pending,
		func() (models.AuthStatus, error) {
			return models.AuthStatus{Status: models.AuthComplete, Credential: "signed"}, nil
		},
	}}
	dash := &spyDashboard{}
	job := NewDriveLinkJob(drive, dash, logger.Nop())

	job.Start(context.Background(), "state-1", 5*time.Millisecond)

	require.Eventually(t, func() bool { return len(dash.stored()) == 1 }, time.Second, 5*time.Millisecond)
	job.Stop()

	assert.Equal(t, []string{"signed"}, dash.stored())

	// после завершения опрос прекращается
	calls := drive.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, drive.calls.Load())
}

func TestDriveLinkJob_TransientErrorsKeepPolling(t *testing.T) {
	drive := &spyDrive{replies: []func() (models.AuthStatus, error){
		func() (models.AuthStatus, error) { return models.AuthStatus{}, fmt.Errorf("dial: %w", assert.AnError) },
		func() (models.AuthStatus, error) { return models.AuthStatus{}, adapter.ErrServiceUnavailable },
		func() (models.AuthStatus, error) {
			return models.AuthStatus{Status: models.AuthComplete, Credential: "late"}, nil
		},
	}}
	dash := &spyDashboard{}
	job := NewDriveLinkJob(drive, dash, logger.Nop())

	job.Start(context.Background(), "state-1", 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(dash.stored()) == 1 }, time.Second, 5*time.Millisecond)
	job.Stop()

	assert.Equal(t, []string{"late"}, dash.stored())
}

func TestDriveLinkJob_ExpiredStateStops(t *testing.T) {
	drive := &spyDrive{replies: []func() (models.AuthStatus, error){
		func() (models.AuthStatus, error) {
			return models.AuthStatus{}, fmt.Errorf("%w: invalid or expired authorization state", adapter.ErrBadRequest)
		},
	}}
	dash := &spyDashboard{}
	job := NewDriveLinkJob(drive, dash, logger.Nop())

	job.Start(context.Background(), "gone", 5*time.Millisecond)
	require.Eventually(t, func() bool { return drive.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(1), drive.calls.Load())
	assert.Empty(t, dash.stored())
}

func TestDriveLinkJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewDriveLinkJob(&spyDrive{}, &spyDashboard{}, logger.Nop())

	// Stop без Start не должен паниковать
	assert.NotPanics(t, func() { job.Stop() })
	assert.NotPanics(t, func() { job.Stop() })
}

func TestDriveLinkJob_Start_DefaultInterval(t *testing.T) {
	drive := &spyDrive{}
	job := NewDriveLinkJob(drive, &spyDashboard{}, logger.Nop())

	// interval <= 0 → дефолт 2s, за 20ms вызовов быть не должно
	job.Start(context.Background(), "state", 0)
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(0), drive.calls.Load())
}

func TestDriveLinkJob_Timeout(t *testing.T) {
	drive := &spyDrive{}
	job := NewDriveLinkJob(drive, &spyDashboard{}, logger.Nop()).(*driveLinkJob)
	job.timeout = 30 * time.Millisecond

	job.Start(context.Background(), "state", 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	calls := drive.calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, calls, drive.calls.Load(), "polling must end with the timeout")
	job.Stop()
}

func TestDriveLinkJob_ContextCancel_StopsJob(t *testing.T) {
	job := NewDriveLinkJob(&spyDrive{}, &spyDashboard{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, "state", 5*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after context cancellation")
	}
}
