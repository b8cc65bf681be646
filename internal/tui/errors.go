// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/service"
)

// humanizeError turns controller and network errors into short messages
// for the status line.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrWrongPassword):
		return "Wrong username or password"
	case errors.Is(err, service.ErrAuthenticationRequired):
		return app.UploadAuthRequiredMessage
	case errors.Is(err, service.ErrRemoteNotConfigured):
		return "No cloud store configured (press c)"
	case errors.Is(err, service.ErrInstitutionInUse):
		return "Institution still has beneficiaries; move or delete them first"
	case errors.Is(err, service.ErrControllerStopped):
		return "Dashboard is shutting down"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Network unavailable or server unreachable"
	}

	return err.Error()
}
