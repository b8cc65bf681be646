package store

import (
	"encoding/json"

	"github.com/MKhiriev/lks-registry/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	projectsTable  = "projects"
	documentsTable = "documents"

	mergeConfigConflict = `ON CONFLICT (project_id) DO UPDATE
		SET data = projects.data || EXCLUDED.data, updated_at = NOW()`

	mergeDocumentConflict = `ON CONFLICT (project_id, collection, doc_id) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = NOW()`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildGetConfigQuery(projectID string) (string, []any, error) {
	return psql.Select("data").
		From(projectsTable).
		Where(sq.Eq{"project_id": projectID}).
		ToSql()
}

func buildMergeConfigQuery(projectID string, data json.RawMessage) (string, []any, error) {
	return psql.Insert(projectsTable).
		Columns("project_id", "data").
		Values(projectID, sq.Expr("?::jsonb", string(data))).
		Suffix(mergeConfigConflict).
		ToSql()
}

func documentKey(projectID, collection, docID string) sq.And {
	return sq.And{
		sq.Eq{"project_id": projectID},
		sq.Eq{"collection": collection},
		sq.Eq{"doc_id": docID},
	}
}

func buildGetDocumentQuery(projectID, collection, docID string) (string, []any, error) {
	return psql.Select("doc_id", "data").
		From(documentsTable).
		Where(documentKey(projectID, collection, docID)).
		ToSql()
}

func buildListDocumentsQuery(projectID, collection string) (string, []any, error) {
	return psql.Select("doc_id", "data").
		From(documentsTable).
		Where(sq.And{sq.Eq{"project_id": projectID}, sq.Eq{"collection": collection}}).
		OrderBy("created_at", "doc_id").
		ToSql()
}

func buildMergeDocumentQuery(projectID, collection, docID string, data json.RawMessage) (string, []any, error) {
	return psql.Insert(documentsTable).
		Columns("project_id", "collection", "doc_id", "data").
		Values(projectID, collection, docID, sq.Expr("?::jsonb", string(data))).
		Suffix(mergeDocumentConflict).
		ToSql()
}

func buildDeleteDocumentQuery(projectID, collection, docID string) (string, []any, error) {
	return psql.Delete(documentsTable).
		Where(documentKey(projectID, collection, docID)).
		ToSql()
}

func buildWriteOpQuery(projectID string, op models.WriteOp) (string, []any, error) {
	if op.Delete {
		return buildDeleteDocumentQuery(projectID, op.Collection, op.ID)
	}
	return buildMergeDocumentQuery(projectID, op.Collection, op.ID, op.Data)
}
