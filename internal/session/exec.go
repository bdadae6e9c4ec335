package session

import (
	"context"
	"fmt"
	"sync"
)

// ResultError is the error result (^error) of a command.
type ResultError struct {
	Command string
	Message string
	Code    string // optional, e.g. "undefined-command"
}

func (e *ResultError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Command, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// Exec issues text and waits for the terminal record that completes it.
// An error result is returned as *ResultError alongside its snapshot.
//
// Exec shares the single pending slot with IssueCommand: issuing another
// command before this one completes replaces Exec's handler, and Exec then
// waits until ctx is done or the session closes.
//
// Exec must not be called from a Handler or an event callback. Feed holds
// its lock while dispatching, so Exec would block forever waiting for a
// record Feed cannot deliver.
func (s *Session) Exec(ctx context.Context, text string) (Snapshot, error) {
	done := make(chan Snapshot, 1)
	closed := make(chan struct{})

	var once sync.Once
	unsubscribe := s.OnClosed(func(ExitStatus) {
		once.Do(func() { close(closed) })
	})
	defer unsubscribe()

	if err := s.IssueCommand(text, func(snap Snapshot) {
		done <- snap
	}); err != nil {
		return Snapshot{}, err
	}

	select {
	case snap := <-done:
		if snap.State == StateError {
			msg, _ := snap.Fields.String("msg")
			code, _ := snap.Fields.String("code")
			return snap, &ResultError{Command: text, Message: msg, Code: code}
		}
		return snap, nil
	case <-closed:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
