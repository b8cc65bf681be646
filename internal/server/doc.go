// Package server runs the document store's HTTP transport.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown. Live subscriptions are bound to a base context that is
// cancelled when shutdown begins, so websocket streams end with a
// going-away close instead of holding the shutdown open.
package server
