package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"golang.org/x/crypto/bcrypt"
)

// Default timings of the sync engine.
const (
	DefaultDebounceWindow = 2 * time.Second
	DefaultSuppressWindow = time.Second
)

// statusCause records which part of the sync machinery set the error status.
type statusCause int

const (
	causeNone statusCause = iota
	causePush
	causeSubscription
	causeInit
)

// dashboardService is the application controller. All fields below cmds are
// owned by the goroutine running Run and must only be touched from commands.
type dashboardService struct {
	cfg           config.ClientSync
	persistence   PersistenceService
	connector     RemoteConnector
	drive         adapter.DriveAdapter
	engine        *syncEngine
	notifications *notificationLog
	views         *viewBroadcaster
	ids           *utils.UUIDGenerator
	passwordCost  int
	logger        *logger.Logger

	cmds chan func()
	done chan struct{}

	runCtx      context.Context
	state       models.AppState
	status      models.SyncStatus
	cause       statusCause
	syncMessage string
	banner      string

	// remoteUpdating is set by every remote snapshot and cleared when the
	// suppression timer fires. No sync cycle is armed or run while it is set.
	remoteUpdating bool
	suppressGen    uint64
	suppressTimer  *time.Timer

	debounceGen   uint64
	debounceTimer *time.Timer

	baselines   syncBaselines
	baselineRev [2]uint64
	pushing     bool
	pushDirty   bool
	forceQueued bool

	// connGen identifies the current remote connection. Results of older
	// connections are dropped.
	connGen      uint64
	remote       adapter.DocumentStore
	unsubscribes []func()
	seenSnapshot map[models.SubscriptionTarget]bool
	pushPending  bool
}

const (
	revInstitutions = iota
	revBeneficiaries
)

// NewDashboardService creates the controller. It does nothing until Run is
// called.
func NewDashboardService(cfg config.ClientSync, persistence PersistenceService, connector RemoteConnector,
	drive adapter.DriveAdapter, logger *logger.Logger) DashboardService {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.SuppressWindow <= 0 {
		cfg.SuppressWindow = DefaultSuppressWindow
	}

	return &dashboardService{
		cfg:           cfg,
		persistence:   persistence,
		connector:     connector,
		drive:         drive,
		engine:        newSyncEngine(cfg.BatchSize, logger),
		notifications: newNotificationLog(cfg.NotificationLimit),
		views:         newViewBroadcaster(),
		ids:           utils.NewUUIDGenerator(),
		passwordCost:  bcrypt.DefaultCost,
		logger:        logger,
		cmds:          make(chan func()),
		done:          make(chan struct{}),
		status:        models.SyncIdle,
		seenSnapshot:  make(map[models.SubscriptionTarget]bool),
	}
}

// Run implements DashboardService.
func (s *dashboardService) Run(ctx context.Context) error {
	defer close(s.done)

	s.runCtx = ctx
	state, err := s.persistence.Load(ctx)
	if err != nil {
		s.logger.Err(err).Str("func", "dashboardService.Run").Msg("loading local state failed, starting empty")
	}
	s.state = state
	s.connect()
	s.publish()

	for {
		select {
		case <-ctx.Done():
			s.disconnect()
			s.stopTimer(&s.debounceTimer)
			s.stopTimer(&s.suppressTimer)
			s.views.close()
			return nil
		case cmd := <-s.cmds:
			cmd()
		}
	}
}

// do runs fn on the controller goroutine and returns its error.
func (s *dashboardService) do(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	cmd := func() { errCh <- fn() }

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-errCh
}

// post queues fn from a timer or a remote goroutine. It is dropped once the
// controller stopped.
func (s *dashboardService) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	}
}

func (s *dashboardService) Watch() (<-chan models.DashboardView, func()) {
	return s.views.subscribe()
}

func (s *dashboardService) View(ctx context.Context) (models.DashboardView, error) {
	var view models.DashboardView
	err := s.do(ctx, func() error {
		view = s.view()
		return nil
	})
	return view, err
}

func (s *dashboardService) view() models.DashboardView {
	return models.DashboardView{
		State:          s.state.Clone(),
		Status:         s.status,
		SyncMessage:    s.syncMessage,
		StorageBanner:  s.banner,
		RemoteUpdating: s.remoteUpdating,
	}
}

func (s *dashboardService) publish() {
	s.views.publish(s.view())
}

// mutate applies fn to a copy of the state and commits it only when fn
// succeeds. The committed state is persisted and, for syncable kinds, a sync
// cycle is scheduled.
func (s *dashboardService) mutate(kind models.ChangeKind, fn func(state *models.AppState) error) error {
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next

	s.banner = s.persistence.Persist(s.runCtx, s.state)
	if kind.Syncable() {
		s.scheduleSync()
	}
	s.publish()
	return nil
}

func (s *dashboardService) setStatus(status models.SyncStatus, cause statusCause, message string) {
	s.status, s.cause, s.syncMessage = status, cause, message
}

// canSync reports whether a push may run: a remote is connected and the
// status is connected or an error left by a previous push.
func (s *dashboardService) canSync() bool {
	if s.remote == nil {
		return false
	}
	return s.status == models.SyncConnected || s.status == models.SyncError && s.cause == causePush
}

// scheduleSync re-arms the debounce timer after a local change.
func (s *dashboardService) scheduleSync() {
	if s.remoteUpdating {
		s.logger.Debug().Msg("remote update in progress, local change not scheduled")
		return
	}
	if s.pushing {
		s.pushDirty = true
		return
	}
	if !s.canSync() {
		return
	}

	s.debounceGen++
	gen := s.debounceGen
	s.stopTimer(&s.debounceTimer)
	s.debounceTimer = time.AfterFunc(s.cfg.DebounceWindow, func() {
		s.post(func() {
			if gen == s.debounceGen {
				s.onDebounceFired()
			}
		})
	})
}

func (s *dashboardService) cancelDebounce() {
	s.debounceGen++
	s.stopTimer(&s.debounceTimer)
}

func (s *dashboardService) onDebounceFired() {
	if s.remoteUpdating || !s.canSync() {
		return
	}
	if s.pushing {
		s.pushDirty = true
		return
	}
	s.startPush()
}

// startPush hands a snapshot of the state to a push goroutine. The result is
// applied back on the controller goroutine.
func (s *dashboardService) startPush() {
	s.pushing = true
	s.setStatus(models.SyncSyncing, causeNone, "")

	snapshot := s.state.Clone()
	base := s.baselines
	revs := s.baselineRev
	remote := s.remote
	gen := s.connGen
	ctx := s.runCtx

	go func() {
		res := s.engine.push(ctx, remote, snapshot, base)
		s.post(func() { s.onPushSettled(gen, revs, res) })
	}()

	s.publish()
}

func (s *dashboardService) onPushSettled(gen uint64, revs [2]uint64, res pushResult) {
	if gen != s.connGen {
		return
	}
	s.pushing = false

	// A remote snapshot that arrived during the push already rebased the
	// collection on newer data.
	if res.institutions != nil && revs[revInstitutions] == s.baselineRev[revInstitutions] {
		s.baselines.institutions = *res.institutions
	}
	if res.beneficiaries != nil && revs[revBeneficiaries] == s.baselineRev[revBeneficiaries] {
		s.baselines.beneficiaries = *res.beneficiaries
	}

	if res.err != nil {
		s.logger.Err(res.err).Str("func", "dashboardService.onPushSettled").Msg("sync cycle failed")
		s.setStatus(models.SyncError, causePush, syncFailureMessage(res.err))
	} else {
		s.setStatus(models.SyncConnected, causeNone, "")
	}

	if s.pushDirty {
		s.pushDirty = false
		s.scheduleSync()
	}
	s.publish()
}

func (s *dashboardService) ForcePush(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.remote == nil || !s.canSync() && !s.pushing {
			return ErrRemoteNotConfigured
		}
		if s.pushing {
			s.pushDirty = true
			return nil
		}
		if s.remoteUpdating {
			s.forceQueued = true
			return nil
		}
		s.cancelDebounce()
		s.startPush()
		return nil
	})
}

// suppress sets the remote-update flag and re-arms its reset timer.
func (s *dashboardService) suppress() {
	s.remoteUpdating = true
	s.cancelDebounce()

	s.suppressGen++
	gen := s.suppressGen
	s.stopTimer(&s.suppressTimer)
	s.suppressTimer = time.AfterFunc(s.cfg.SuppressWindow, func() {
		s.post(func() {
			if gen == s.suppressGen {
				s.onSuppressExpired()
			}
		})
	})
}

func (s *dashboardService) onSuppressExpired() {
	s.remoteUpdating = false

	switch {
	case s.forceQueued && s.canSync() && !s.pushing:
		s.forceQueued = false
		s.pushPending = false
		s.startPush()
	case s.pushPending && s.canSync():
		s.pushPending = false
		s.scheduleSync()
	}
	s.publish()
}

func (s *dashboardService) stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

// viewBroadcaster fans views out to watchers. Each watcher holds at most one
// pending view; a newer view replaces an unread one.
type viewBroadcaster struct {
	mu     sync.Mutex
	subs   map[chan models.DashboardView]struct{}
	last   *models.DashboardView
	closed bool
}

func newViewBroadcaster() *viewBroadcaster {
	return &viewBroadcaster{subs: make(map[chan models.DashboardView]struct{})}
}

func (b *viewBroadcaster) subscribe() (<-chan models.DashboardView, func()) {
	ch := make(chan models.DashboardView, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	if b.last != nil {
		ch <- *b.last
	}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

func (b *viewBroadcaster) publish(view models.DashboardView) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &view
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- view
	}
}

func (b *viewBroadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
