package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/models"
)

type errorResponse struct {
	err     error
	status  int
	message string
}

// errorResponses is checked in order; the first match wins.
var errorResponses = []errorResponse{
	{service.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, app.MsgPayloadTooLarge},
	{store.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, app.MsgPayloadTooLarge},
	{service.ErrBatchTooLarge, http.StatusBadRequest, app.MsgBatchTooLarge},
	{service.ErrEmptyBatch, http.StatusBadRequest, app.MsgEmptyBatch},
	{service.ErrInvalidProjectID, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{models.ErrUnknownCollection, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{store.ErrNotFound, http.StatusNotFound, app.MsgDocumentNotFound},

	{service.ErrOAuthNotConfigured, http.StatusServiceUnavailable, app.MsgOAuthNotConfigured},
	{service.ErrInvalidAuthState, http.StatusBadRequest, app.MsgInvalidAuthState},
	{service.ErrAuthenticationRequired, http.StatusUnauthorized, app.MsgAuthenticationRequired},
	{service.ErrUnexpectedResponseFormat, http.StatusBadGateway, app.MsgUnexpectedResponseFormat},
	{service.ErrTokenExchangeFailed, http.StatusBadGateway, http.StatusText(http.StatusBadGateway)},
	{service.ErrUploadFailed, http.StatusBadGateway, http.StatusText(http.StatusBadGateway)},
}

func responseFromError(err error) (int, string) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return r.status, r.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

func statusFromError(err error) int {
	status, _ := responseFromError(err)
	return status
}

// writeError logs err and answers with the status and message it maps to.
func writeError(w http.ResponseWriter, log *logger.Logger, err error, fn string) {
	status, message := responseFromError(err)

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", fn).Int("status", status).Send()

	http.Error(w, message, status)
}
