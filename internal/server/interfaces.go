package server

// Server is the lifecycle of the document store HTTP server.
type Server interface {
	// RunServer serves until SIGINT/SIGTERM, then shuts down and returns.
	RunServer()

	// Shutdown stops accepting requests, cancels open subscription streams
	// and waits for in-flight requests.
	Shutdown()
}
