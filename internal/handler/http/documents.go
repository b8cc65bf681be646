package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	data, err := h.services.DocumentService.GetConfig(r.Context(), projectID)
	if err != nil {
		writeError(w, logger.FromRequest(r), err, "*Handler.getConfig")
		return
	}

	writeRawJSON(w, data, http.StatusOK)
}

func (h *Handler) mergeConfig(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	projectID := chi.URLParam(r, "projectID")

	body, err := readBody(w, r, h.maxDocumentBytes)
	if err != nil {
		writeError(w, log, err, "*Handler.mergeConfig")
		return
	}

	if err = h.services.DocumentService.MergeConfig(r.Context(), projectID, body); err != nil {
		writeError(w, log, err, "*Handler.mergeConfig")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	collection := chi.URLParam(r, "collection")

	docs, err := h.services.DocumentService.ListDocuments(r.Context(), projectID, collection)
	if err != nil {
		writeError(w, logger.FromRequest(r), err, "*Handler.listDocuments")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	utils.WriteJSON(w, docs, http.StatusOK)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	collection := chi.URLParam(r, "collection")
	docID := chi.URLParam(r, "docID")

	doc, err := h.services.DocumentService.GetDocument(r.Context(), projectID, collection, docID)
	if err != nil {
		writeError(w, logger.FromRequest(r), err, "*Handler.getDocument")
		return
	}

	utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) mergeDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	projectID := chi.URLParam(r, "projectID")
	collection := chi.URLParam(r, "collection")
	docID := chi.URLParam(r, "docID")

	body, err := readBody(w, r, h.maxDocumentBytes)
	if err != nil {
		writeError(w, log, err, "*Handler.mergeDocument")
		return
	}

	if err = h.services.DocumentService.MergeDocument(r.Context(), projectID, collection, docID, body); err != nil {
		writeError(w, log, err, "*Handler.mergeDocument")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	collection := chi.URLParam(r, "collection")
	docID := chi.URLParam(r, "docID")

	if err := h.services.DocumentService.DeleteDocument(r.Context(), projectID, collection, docID); err != nil {
		writeError(w, logger.FromRequest(r), err, "*Handler.deleteDocument")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) commitBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	projectID := chi.URLParam(r, "projectID")

	body, err := readBody(w, r, h.batchLimit())
	if err != nil {
		writeError(w, log, err, "*Handler.commitBatch")
		return
	}

	var batch models.BatchRequest
	if err = json.Unmarshal(body, &batch); err != nil {
		writeError(w, log, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err), "*Handler.commitBatch")
		return
	}

	if err = h.services.DocumentService.CommitBatch(r.Context(), projectID, batch.Writes); err != nil {
		writeError(w, log, err, "*Handler.commitBatch")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// batchLimit bounds a batch body: a full batch of maximal documents plus
// envelope slack.
func (h *Handler) batchLimit() int64 {
	if h.maxDocumentBytes <= 0 {
		return 0
	}
	return h.maxDocumentBytes*models.MaxBatchWrites + 1024
}

// readBody reads at most limit bytes of the request body. A larger body is
// reported as [service.ErrPayloadTooLarge]; limit <= 0 disables the check.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) (json.RawMessage, error) {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", service.ErrPayloadTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: read body: %w", service.ErrInvalidDataProvided, err)
	}

	return data, nil
}

func writeRawJSON(w http.ResponseWriter, data json.RawMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
