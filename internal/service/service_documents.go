package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/models"
)

type documentService struct {
	repo store.DocumentRepository
	hub  *changeHub

	logger *logger.Logger
}

// NewDocumentService builds the document store on top of repo. Every
// successful write publishes a fresh snapshot of the affected target to the
// live subscriptions of this process.
func NewDocumentService(repo store.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		repo:   repo,
		hub:    newChangeHub(),
		logger: logger,
	}
}

func (s *documentService) GetConfig(ctx context.Context, projectID string) (json.RawMessage, error) {
	return s.repo.GetConfig(ctx, projectID)
}

func (s *documentService) MergeConfig(ctx context.Context, projectID string, data json.RawMessage) error {
	if err := s.repo.MergeConfig(ctx, projectID, data); err != nil {
		return err
	}

	s.notify(ctx, projectID, models.TargetConfig)
	return nil
}

func (s *documentService) GetDocument(ctx context.Context, projectID, collection, docID string) (models.Document, error) {
	return s.repo.GetDocument(ctx, projectID, collection, docID)
}

func (s *documentService) ListDocuments(ctx context.Context, projectID, collection string) ([]models.Document, error) {
	return s.repo.ListDocuments(ctx, projectID, collection)
}

func (s *documentService) MergeDocument(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error {
	if err := s.repo.MergeDocument(ctx, projectID, collection, docID, data); err != nil {
		return err
	}

	s.notify(ctx, projectID, models.SubscriptionTarget(collection))
	return nil
}

func (s *documentService) DeleteDocument(ctx context.Context, projectID, collection, docID string) error {
	if err := s.repo.DeleteDocument(ctx, projectID, collection, docID); err != nil {
		return err
	}

	s.notify(ctx, projectID, models.SubscriptionTarget(collection))
	return nil
}

func (s *documentService) CommitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error {
	if err := s.repo.CommitBatch(ctx, projectID, writes); err != nil {
		return err
	}

	touched := make(map[string]struct{}, 2)
	for _, w := range writes {
		touched[w.Collection] = struct{}{}
	}
	for _, collection := range []string{models.CollectionInstitutions, models.CollectionBeneficiaries} {
		if _, ok := touched[collection]; ok {
			s.notify(ctx, projectID, models.SubscriptionTarget(collection))
		}
	}

	return nil
}

func (s *documentService) Subscribe(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error) {
	key := hubKey{projectID: projectID, target: target}

	// subscribe before reading the snapshot so no write in between is lost
	sub, unsubscribe := s.hub.subscribe(key)

	initial, err := s.snapshot(ctx, projectID, target)
	if err != nil {
		unsubscribe()
		return models.ChangeEvent{}, nil, err
	}

	out := make(chan models.ChangeEvent)
	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-sub.ch:
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return initial, out, nil
}

// notify publishes a fresh snapshot of target. Failures are logged only:
// the write itself already succeeded.
func (s *documentService) notify(ctx context.Context, projectID string, target models.SubscriptionTarget) {
	key := hubKey{projectID: projectID, target: target}
	if !s.hub.hasSubscribers(key) {
		return
	}

	unlock := s.hub.lockKey(key)
	defer unlock()

	event, err := s.snapshot(context.WithoutCancel(ctx), projectID, target)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "documentService.notify").
			Str("project_id", projectID).
			Str("target", string(target)).
			Msg("failed to load snapshot for subscribers")
		return
	}

	s.hub.publish(key, event)
}

func (s *documentService) snapshot(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, error) {
	event := models.ChangeEvent{Target: target}

	if target == models.TargetConfig {
		data, err := s.repo.GetConfig(ctx, projectID)
		if errors.Is(err, store.ErrNotFound) {
			event.Config = json.RawMessage(`{}`)
			return event, nil
		}
		if err != nil {
			return event, fmt.Errorf("load config snapshot: %w", err)
		}
		event.Config = data
		return event, nil
	}

	docs, err := s.repo.ListDocuments(ctx, projectID, string(target))
	if err != nil {
		return event, fmt.Errorf("load %s snapshot: %w", target, err)
	}
	event.Documents = docs
	if event.Documents == nil {
		event.Documents = []models.Document{}
	}
	return event, nil
}
