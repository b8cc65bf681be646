package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
)

// documentRepository is the PostgreSQL implementation of
// [DocumentRepository]. Queries are built with squirrel; jsonb merges are
// done by the database with the || operator.
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by db.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *documentRepository) GetConfig(ctx context.Context, projectID string) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetConfigQuery(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data []byte
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.GetConfig").
			Str("project_id", projectID).
			Msg("failed to get config document")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return data, nil
}

func (r *documentRepository) MergeConfig(ctx context.Context, projectID string, data json.RawMessage) error {
	log := logger.FromContext(ctx)

	query, args, err := buildMergeConfigQuery(projectID, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "documentRepository.MergeConfig").
			Str("project_id", projectID).
			Int("bytes", len(data)).
			Msg("failed to merge config document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, mapPostgresError(err))
	}

	return nil
}

func (r *documentRepository) GetDocument(ctx context.Context, projectID, collection, docID string) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetDocumentQuery(projectID, collection, docID)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		doc  models.Document
		data []byte
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&doc.ID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.GetDocument").
			Str("project_id", projectID).
			Str("collection", collection).
			Str("doc_id", docID).
			Msg("failed to get document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	doc.Data = data

	return doc, nil
}

func (r *documentRepository) ListDocuments(ctx context.Context, projectID, collection string) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListDocumentsQuery(projectID, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.ListDocuments").
			Str("project_id", projectID).
			Str("collection", collection).
			Msg("failed to execute query for listing documents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0, 50)
	for rows.Next() {
		var (
			doc  models.Document
			data []byte
		)
		if err := rows.Scan(&doc.ID, &data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		doc.Data = data
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "documentRepository.ListDocuments").
			Str("project_id", projectID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return docs, nil
}

func (r *documentRepository) MergeDocument(ctx context.Context, projectID, collection, docID string, data json.RawMessage) error {
	log := logger.FromContext(ctx)

	query, args, err := buildMergeDocumentQuery(projectID, collection, docID, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "documentRepository.MergeDocument").
			Str("project_id", projectID).
			Str("collection", collection).
			Str("doc_id", docID).
			Msg("failed to merge document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, mapPostgresError(err))
	}

	return nil
}

func (r *documentRepository) DeleteDocument(ctx context.Context, projectID, collection, docID string) error {
	query, args, err := buildDeleteDocumentQuery(projectID, collection, docID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "documentRepository.DeleteDocument").
			Str("project_id", projectID).
			Str("doc_id", docID).
			Msg("failed to delete document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// CommitBatch applies writes in one transaction. A transaction that fails
// with a retryable error (serialization failure, deadlock) is attempted
// once more.
func (r *documentRepository) CommitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error {
	err := r.commitBatch(ctx, projectID, writes)
	if err != nil && r.errorClassificator != nil && r.errorClassificator.Classify(err) == Retryable {
		logger.FromContext(ctx).Warn().
			Str("func", "documentRepository.CommitBatch").
			Str("project_id", projectID).
			Msg("retrying batch after retryable error")
		err = r.commitBatch(ctx, projectID, writes)
	}

	return err
}

func (r *documentRepository) commitBatch(ctx context.Context, projectID string, writes []models.WriteOp) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.CommitBatch").
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for i, op := range writes {
		query, args, err := buildWriteOpQuery(projectID, op)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "documentRepository.CommitBatch").
				Str("project_id", projectID).
				Int("write", i).
				Str("doc_id", op.ID).
				Msg("failed to apply batch write")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, mapPostgresError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "documentRepository.CommitBatch").
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
