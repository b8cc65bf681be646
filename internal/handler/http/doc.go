// Package http implements the HTTP transport of the document store server.
//
// It exposes the project routes (config document, lks and pm collections,
// batched writes and websocket subscriptions), the storage authorization
// flow, the attachment upload and the health and version endpoints.
// API-key checks, request tracing, access logging, compression and request
// timeouts are handled here before requests reach the service layer.
package http
