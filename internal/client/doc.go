// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client runs the dashboard process.
//
// The dashboard controller and the terminal UI run as one worker group.
// Quitting the UI or receiving SIGINT/SIGTERM stops the controller, after
// which the local storage and the log file are closed.
package client
