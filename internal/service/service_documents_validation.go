package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/lks-registry/models"
)

// DocumentValidationService checks addresses, payload shape and size before
// a call reaches the wrapped [DocumentService].
type DocumentValidationService struct {
	inner            DocumentService
	maxDocumentBytes int64
}

// NewDocumentValidationService returns a wrapper enforcing maxDocumentBytes
// per document. A non-positive limit disables the size check.
func NewDocumentValidationService(maxDocumentBytes int64) DocumentServiceWrapper {
	return &DocumentValidationService{maxDocumentBytes: maxDocumentBytes}
}

func (v *DocumentValidationService) Wrap(inner DocumentService) DocumentService {
	v.inner = inner
	return v
}

func (v *DocumentValidationService) GetConfig(ctx context.Context, projectID string) (json.RawMessage, error) {
	if err := validateProject(projectID); err != nil {
		return nil, err
	}
	return v.inner.GetConfig(ctx, projectID)
}

func (v *DocumentValidationService) MergeConfig(ctx context.Context, projectID string, data json.RawMessage) error {
	if err := validateProject(projectID); err != nil {
		return err
	}
	if err := v.validatePayload(data); err != nil {
		return err
	}
	return v.inner.MergeConfig(ctx, projectID, data)
}

func (v *DocumentValidationService) GetDocument(ctx context.Context, projectID, collection, docID string) (models.Document, error) {
	if err := validateAddress(projectID, collection, docID); err != nil {
		return models.Document{}, err
	}
	return v.inner.GetDocument(ctx, projectID, collection, docID)
}

func (v *DocumentValidationService) ListDocuments(ctx context.Context, projectID, collection string) ([]models.Document, error) {
	if err := validateProject(projectID); err != nil {
		return nil, err
	}
	if err := models.ValidateCollection(collection); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.ListDocuments(ctx, projectID, collection)
}

func (v *DocumentValidationService) MergeDocument(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error {
	if err := validateAddress(projectID, collection, docID); err != nil {
		return err
	}
	if err := v.validatePayload(data); err != nil {
		return err
	}
	return v.inner.MergeDocument(ctx, projectID, collection, docID, data)
}

func (v *DocumentValidationService) DeleteDocument(ctx context.Context, projectID, collection, docID string) error {
	if err := validateAddress(projectID, collection, docID); err != nil {
		return err
	}
	return v.inner.DeleteDocument(ctx, projectID, collection, docID)
}

func (v *DocumentValidationService) CommitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error {
	if err := validateProject(projectID); err != nil {
		return err
	}
	switch {
	case len(writes) == 0:
		return ErrEmptyBatch
	case len(writes) > models.MaxBatchWrites:
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(writes), models.MaxBatchWrites)
	}

	for i, w := range writes {
		if err := validateAddress(projectID, w.Collection, w.ID); err != nil {
			return fmt.Errorf("write %d: %w", i, err)
		}
		if w.Delete {
			continue
		}
		if err := v.validatePayload(w.Data); err != nil {
			return fmt.Errorf("write %d: %w", i, err)
		}
	}

	return v.inner.CommitBatch(ctx, projectID, writes)
}

func (v *DocumentValidationService) Subscribe(ctx context.Context, projectID string, target models.SubscriptionTarget) (models.ChangeEvent, <-chan models.ChangeEvent, error) {
	if err := validateProject(projectID); err != nil {
		return models.ChangeEvent{}, nil, err
	}
	if _, err := models.ParseSubscriptionTarget(string(target)); err != nil {
		return models.ChangeEvent{}, nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Subscribe(ctx, projectID, target)
}

// validatePayload requires a JSON object no larger than the configured
// limit.
func (v *DocumentValidationService) validatePayload(data json.RawMessage) error {
	if v.maxDocumentBytes > 0 && int64(len(data)) > v.maxDocumentBytes {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return fmt.Errorf("%w: document must be a JSON object", ErrInvalidDataProvided)
	}
	return nil
}

func validateProject(projectID string) error {
	if err := models.ValidateProjectID(projectID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProjectID, err)
	}
	return nil
}

func validateAddress(projectID, collection, docID string) error {
	if err := validateProject(projectID); err != nil {
		return err
	}
	if err := models.ValidateCollection(collection); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := models.ValidateID(docID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}
