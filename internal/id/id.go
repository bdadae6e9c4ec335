// Package id provides utilities for generating unique identifiers.
package id

import "github.com/google/uuid"

// New returns a random UUID string, used to label a debugger session.
func New() string {
	return uuid.NewString()
}

// Short returns the first 8 characters of a random UUID, for log lines and
// display where the full identifier is noise.
func Short() string {
	return New()[:8]
}
