package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// withTimeout bounds the request context by the configured request timeout.
// A zero timeout disables it.
func (h *Handler) withTimeout(next http.Handler) http.Handler {
	if h.requestTimeout <= 0 {
		return next
	}
	return middleware.Timeout(h.requestTimeout)(next)
}
