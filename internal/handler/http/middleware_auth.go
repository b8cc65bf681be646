package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/go-chi/chi/v5"
)

// withAPIKey guards the project routes. The X-API-Key header must match one
// of the configured keys; the project named in the path is then stored in
// the request context under [utils.ProjectIDCtxKey].
//
// A missing header is answered with 401, an unknown key with 403.
func (h *Handler) withAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		key := r.Header.Get(models.APIKeyHeader)
		if key == "" {
			log.Err(ErrEmptyAPIKeyHeader).Send()
			http.Error(w, app.MsgInvalidAPIKey, http.StatusUnauthorized)
			return
		}
		if !h.knownAPIKey(key) {
			log.Err(ErrUnknownAPIKey).Send()
			http.Error(w, app.MsgInvalidAPIKey, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), utils.ProjectIDCtxKey, chi.URLParam(r, "projectID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// knownAPIKey compares key against every configured key in constant time.
func (h *Handler) knownAPIKey(key string) bool {
	found := 0
	for _, k := range h.apiKeys {
		found |= subtle.ConstantTimeCompare(k, []byte(key))
	}
	return found == 1
}
