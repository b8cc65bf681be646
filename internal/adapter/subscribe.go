package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/lks-registry/models"
	"github.com/coder/websocket"
)

// Subscribe implements [DocumentStore]. It dials
// GET /api/projects/{projectID}/subscribe?target=... as a websocket and
// decodes every text frame into a [models.ChangeEvent].
func (d *documentStore) Subscribe(ctx context.Context, target models.SubscriptionTarget,
	onEvent func(models.ChangeEvent), onError func(error)) (func(), error) {
	log := d.logger.GetChildLogger()

	conn, resp, err := websocket.Dial(ctx, d.subscribeURL(target), &websocket.DialOptions{
		HTTPHeader: http.Header{models.APIKeyHeader: []string{d.apiKey}},
	})
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			var body []byte
			if resp.Body != nil {
				body, _ = io.ReadAll(resp.Body)
			}
			if mapped := mapStatus(resp.StatusCode, string(body)); mapped != nil {
				return nil, fmt.Errorf("subscribe %s: %w", target, mapped)
			}
		}
		return nil, fmt.Errorf("subscribe %s: %w", target, err)
	}
	conn.SetReadLimit(subscriptionReadLimit)

	subCtx, cancel := context.WithCancel(context.Background())

	go func() {
		defer conn.Close(websocket.StatusNormalClosure, "")

		for {
			_, data, err := conn.Read(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
					websocket.CloseStatus(err) == websocket.StatusGoingAway {
					err = ErrSubscriptionClosed
				}
				log.Err(err).
					Str("func", "documentStore.Subscribe").
					Str("target", string(target)).
					Msg("subscription broke")
				onError(fmt.Errorf("subscription %s: %w", target, err))
				return
			}

			var event models.ChangeEvent
			if err = json.Unmarshal(data, &event); err != nil {
				if subCtx.Err() == nil {
					onError(fmt.Errorf("subscription %s: %w: %w", target, ErrUnexpectedResponseFormat, err))
				}
				return
			}
			if event.Target == "" {
				event.Target = target
			}
			if subCtx.Err() != nil {
				return
			}
			onEvent(event)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

func (d *documentStore) subscribeURL(target models.SubscriptionTarget) string {
	base := d.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	return base + fmt.Sprintf(subscribePath, url.PathEscape(d.projectID), url.QueryEscape(string(target)))
}
