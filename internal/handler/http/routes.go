package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	// routes without api key
	router.Group(func(r chi.Router) {
		r.Use(withGZip, h.withTimeout)

		r.Get("/api/health", h.health)
		r.Get("/api/version/", h.getServerVersion)

		r.Get("/api/auth/url", h.authURL)
		r.Get("/api/auth/callback", h.authCallback)
		r.Get("/api/auth/status", h.authStatus)
		r.Post("/api/upload", h.upload)
	})

	router.Route("/api/projects/{projectID}", func(r chi.Router) {
		r.Use(h.withAPIKey)

		// long-lived: neither compressed nor bounded by the request timeout
		r.Get("/subscribe", h.subscribe)

		r.Group(func(r chi.Router) {
			r.Use(withGZip, h.withTimeout)

			r.Get("/", h.getConfig)
			r.With(h.withBodyHash).Patch("/", h.mergeConfig)
			r.With(h.withBodyHash).Post("/batch", h.commitBatch)

			r.Get("/{collection}", h.listDocuments)
			r.Get("/{collection}/{docID}", h.getDocument)
			r.With(h.withBodyHash).Patch("/{collection}/{docID}", h.mergeDocument)
			r.Delete("/{collection}/{docID}", h.deleteDocument)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
