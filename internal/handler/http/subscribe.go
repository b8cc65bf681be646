package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
)

const subscriptionWriteTimeout = 10 * time.Second

// subscribe streams snapshots of the requested target over a websocket. The
// current snapshot is sent first, then one frame per change. The subscription
// is registered before the upgrade so a bad project or target is answered
// with a plain HTTP status.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	projectID := chi.URLParam(r, "projectID")

	target, err := models.ParseSubscriptionTarget(r.URL.Query().Get("target"))
	if err != nil {
		writeError(w, log, err, "*Handler.subscribe")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	initial, changes, err := h.services.DocumentService.Subscribe(ctx, projectID, target)
	if err != nil {
		writeError(w, log, err, "*Handler.subscribe")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("func", "*Handler.subscribe").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// clients never send data frames
	ctx = conn.CloseRead(ctx)

	log.Info().Str("project_id", projectID).Str("target", string(target)).Msg("subscription opened")

	if err = writeEvent(ctx, conn, initial); err != nil {
		log.Warn().Err(err).Str("func", "*Handler.subscribe").Msg("failed to send initial snapshot")
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "subscription closed")
			log.Info().Str("project_id", projectID).Str("target", string(target)).Msg("subscription closed")
			return
		case event, ok := <-changes:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "subscription closed")
				return
			}
			if err = writeEvent(ctx, conn, event); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Str("func", "*Handler.subscribe").Msg("failed to send snapshot")
				}
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event models.ChangeEvent) error {
	ctx, cancel := context.WithTimeout(ctx, subscriptionWriteTimeout)
	defer cancel()

	return wsjson.Write(ctx, conn, event)
}
