package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
)

// withBodyHash checks the HashSHA256 header of a document write against the
// HMAC of the raw body and restores the body for the handler. Without a
// configured key every request passes untouched.
func (h *Handler) withBodyHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasher.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		log := logger.FromRequest(r)

		body, err := readBody(w, r, h.batchLimit())
		if err != nil {
			writeError(w, log, err, "*Handler.withBodyHash")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		sum := r.Header.Get(models.BodyHashHeader)
		if !h.hasher.Verify(body, sum) {
			log.Err(ErrBodyHashMismatch).
				Str("func", "*Handler.withBodyHash").
				Str("hash from request", sum).
				Int("body_bytes", len(body)).
				Send()
			http.Error(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		log.Debug().Str("func", "*Handler.withBodyHash").Msg("body hash verified")
		next.ServeHTTP(w, r)
	})
}
