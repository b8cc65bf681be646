// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is a runnable dashboard process.
type Client interface {
	// Run blocks until the user quits or the process is signalled. Closing
	// the UI is not an error.
	Run() error
}

var _ Client = (*App)(nil)
