package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
)

var subscriptionTargets = []models.SubscriptionTarget{
	models.TargetConfig,
	models.TargetInstitutions,
	models.TargetBeneficiaries,
}

// connect drops the current connection and, when a cloud config is set,
// connects and subscribes in the background.
func (s *dashboardService) connect() {
	s.disconnect()
	s.setStatus(models.SyncIdle, causeNone, "")

	cloud := s.state.CloudConfig
	if cloud.IsEmpty() {
		return
	}

	gen := s.connGen
	ctx := s.runCtx
	go func() {
		remote, err := s.connector.Connect(ctx, cloud)
		if err != nil {
			s.post(func() { s.onConnectFailed(gen, err) })
			return
		}

		unsubscribes, err := s.subscribeAll(ctx, gen, remote)
		s.post(func() { s.onConnected(gen, remote, unsubscribes, err) })
	}()
}

// disconnect tears down every subscription and forgets everything known
// about the remote.
func (s *dashboardService) disconnect() {
	for _, unsubscribe := range s.unsubscribes {
		unsubscribe()
	}
	s.unsubscribes = nil
	s.remote = nil
	s.connGen++

	s.cancelDebounce()
	s.pushing, s.pushDirty, s.forceQueued, s.pushPending = false, false, false, false
	s.baselines = syncBaselines{}
	s.baselineRev[revInstitutions]++
	s.baselineRev[revBeneficiaries]++
	clear(s.seenSnapshot)
}

// subscribeAll opens one subscription per target. If any of them fails the
// ones already open are closed.
func (s *dashboardService) subscribeAll(ctx context.Context, gen uint64, remote adapter.DocumentStore) ([]func(), error) {
	unsubscribes := make([]func(), 0, len(subscriptionTargets))

	for _, target := range subscriptionTargets {
		unsubscribe, err := remote.Subscribe(ctx, target,
			func(event models.ChangeEvent) {
				event.Target = target
				s.post(func() { s.onRemoteEvent(gen, event) })
			},
			func(err error) {
				s.post(func() { s.onSubscriptionFailed(gen, err) })
			})
		if err != nil {
			for _, u := range unsubscribes {
				u()
			}
			return nil, err
		}
		unsubscribes = append(unsubscribes, unsubscribe)
	}

	return unsubscribes, nil
}

func (s *dashboardService) onConnected(gen uint64, remote adapter.DocumentStore, unsubscribes []func(), err error) {
	if gen != s.connGen {
		for _, u := range unsubscribes {
			u()
		}
		return
	}

	if err != nil {
		s.logger.Err(err).Str("func", "dashboardService.onConnected").Msg("subscribing to remote failed")
		s.setStatus(models.SyncError, causeSubscription, app.SyncSubscriptionFailureMessage)
		s.publish()
		return
	}

	s.remote = remote
	s.unsubscribes = unsubscribes
	s.setStatus(models.SyncConnected, causeNone, "")
	s.logger.Info().Str("project", remote.ProjectID()).Msg("connected to remote store")

	if s.pushPending && !s.remoteUpdating {
		s.pushPending = false
		s.scheduleSync()
	}
	s.publish()
}

func (s *dashboardService) onConnectFailed(gen uint64, err error) {
	if gen != s.connGen {
		return
	}

	if errors.Is(err, ErrRemoteNotConfigured) {
		s.setStatus(models.SyncIdle, causeNone, "")
	} else {
		s.logger.Err(err).Str("func", "dashboardService.onConnectFailed").Msg("remote initialisation failed")
		s.setStatus(models.SyncError, causeInit, app.SyncInitFailureMessage)
	}
	s.publish()
}

func (s *dashboardService) onSubscriptionFailed(gen uint64, err error) {
	if gen != s.connGen {
		return
	}

	s.logger.Err(err).Str("func", "dashboardService.onSubscriptionFailed").Msg("remote subscription broke")
	s.disconnect()
	s.setStatus(models.SyncError, causeSubscription, app.SyncSubscriptionFailureMessage)
	s.publish()
}

// onRemoteEvent applies a remote snapshot. Collections are replaced and their
// baseline rebased on the remote records, except for local changes the
// baseline does not cover yet: those survive and are pushed once the
// suppression window ends. The config is merged field by field. The first
// empty snapshot of a collection does not wipe local records either.
func (s *dashboardService) onRemoteEvent(gen uint64, event models.ChangeEvent) {
	if gen != s.connGen {
		return
	}

	first := !s.seenSnapshot[event.Target]
	s.seenSnapshot[event.Target] = true

	next := s.state.Clone()
	switch event.Target {
	case models.TargetConfig:
		patch, err := models.DecodeConfigPatch(event.Config)
		if err != nil {
			s.logger.Warn().Err(err).Msg("ignoring invalid remote config")
			return
		}
		patch.Apply(&next)

	case models.TargetInstitutions:
		records := decodeSnapshot(s.logger, event, func(r models.Institution, id string) models.Institution {
			r.ID = id
			return r
		})
		if first && len(records) == 0 && len(next.Institutions) > 0 {
			s.pushPending = true
			rebaseCollection(s, revInstitutions, &s.baselines.institutions, models.CollectionInstitutions, records)
			break
		}
		merged, owed := keepUnsynced(next.Institutions, records, s.baselines.institutions)
		if owed {
			s.pushPending = true
		}
		next.Institutions = merged
		rebaseCollection(s, revInstitutions, &s.baselines.institutions, models.CollectionInstitutions, records)

	case models.TargetBeneficiaries:
		records := decodeSnapshot(s.logger, event, func(r models.Beneficiary, id string) models.Beneficiary {
			r.ID = id
			return r
		})
		if first && len(records) == 0 && len(next.Beneficiaries) > 0 {
			s.pushPending = true
			rebaseCollection(s, revBeneficiaries, &s.baselines.beneficiaries, models.CollectionBeneficiaries, records)
			break
		}
		merged, owed := keepUnsynced(next.Beneficiaries, records, s.baselines.beneficiaries)
		if owed {
			s.pushPending = true
		}
		next.Beneficiaries = merged
		rebaseCollection(s, revBeneficiaries, &s.baselines.beneficiaries, models.CollectionBeneficiaries, records)

	default:
		return
	}

	s.state = next
	s.suppress()
	s.banner = s.persistence.Persist(s.runCtx, s.state)
	s.publish()
}

// rebaseCollection marks records as the synced state of collection.
func rebaseCollection[T models.Record](s *dashboardService, rev int, dst *collectionBaseline, collection string, records []T) {
	base, err := baselineOf(collection, records)
	if err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("rebasing sync baseline failed")
	}

	*dst = base
	s.baselineRev[rev]++
}

type validatedRecord interface {
	models.Record
	Validate() error
}

// decodeSnapshot decodes the documents of a collection snapshot. Documents
// that do not decode or validate are skipped.
func decodeSnapshot[T validatedRecord](log *logger.Logger, event models.ChangeEvent, withID func(T, string) T) []T {
	records := make([]T, 0, len(event.Documents))

	for _, doc := range event.Documents {
		var record T
		if err := json.Unmarshal(doc.Data, &record); err != nil {
			log.Warn().Err(err).Str("target", string(event.Target)).Str("id", doc.ID).Msg("skipping undecodable remote document")
			continue
		}

		record = withID(record, doc.ID)
		if err := record.Validate(); err != nil {
			log.Warn().Err(err).Str("target", string(event.Target)).Str("id", doc.ID).Msg("skipping invalid remote document")
			continue
		}
		records = append(records, record)
	}

	return records
}
