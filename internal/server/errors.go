// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated is returned when the handlers carry no HTTP handler
// to serve.
var errNoServersAreCreated = errors.New("no http handler to serve")
