// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, record hashing,
// HTTP response writing, HTTP client initialization, storage credential
// signing and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ProjectIDCtxKey is the key under which the API-key middleware stores the
// project addressed by the request.
//
//	ctx := context.WithValue(ctx, utils.ProjectIDCtxKey, "social-office")
var ProjectIDCtxKey = contextKey("projectID")

// GetProjectIDFromContext retrieves the project identifier from the context.
// ok is false when the value is missing or not a non-empty string.
func GetProjectIDFromContext(ctx context.Context) (string, bool) {
	projectID, ok := ctx.Value(ProjectIDCtxKey).(string)
	return projectID, ok && projectID != ""
}
