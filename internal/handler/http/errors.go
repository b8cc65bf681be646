// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the API-key middleware. Callers can match against
// them with [errors.Is].
var (
	// ErrEmptyAPIKeyHeader is returned when a project route is called
	// without an X-API-Key header.
	ErrEmptyAPIKeyHeader = errors.New("empty `X-API-Key` header")

	// ErrUnknownAPIKey is returned when the X-API-Key header matches none of
	// the configured keys.
	ErrUnknownAPIKey = errors.New("unknown api key")

	// ErrBodyHashMismatch is returned when a signed write carries no or a
	// wrong HashSHA256 header.
	ErrBodyHashMismatch = errors.New("body hash mismatch")
)
