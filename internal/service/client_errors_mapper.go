// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrUnexpectedResponseFormat):
		return ErrUnexpectedResponseFormat

	case errors.Is(err, adapter.ErrUnauthorized):
		return ErrAuthenticationRequired

	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgInvalidAuthState:
			return ErrInvalidAuthState
		case app.MsgInvalidDataProvided, app.MsgNoFileProvided:
			return ErrInvalidDataProvided
		}

	case errors.Is(err, adapter.ErrServiceUnavailable):
		if msg == app.MsgOAuthNotConfigured {
			return ErrOAuthNotConfigured
		}

	case errors.Is(err, adapter.ErrPayloadTooLarge):
		return ErrPayloadTooLarge

	case errors.Is(err, adapter.ErrBadGateway):
		return ErrUploadFailed
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}

// syncFailureMessage returns the status text shown after a failed push.
func syncFailureMessage(err error) string {
	if errors.Is(err, adapter.ErrPayloadTooLarge) {
		return app.SyncPayloadTooLargeMessage
	}
	return app.SyncFailureMessage
}
