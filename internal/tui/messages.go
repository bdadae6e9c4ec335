package tui

import "github.com/tessro/gdbmi/internal/session"

// consoleMsg carries console stream text with escapes resolved.
type consoleMsg struct {
	Text string
}

// programMsg carries one line of debuggee output.
type programMsg struct {
	Text string
}

// readyMsg carries the snapshot of a terminal record.
type readyMsg struct {
	Snapshot session.Snapshot
}

// notifyMsg carries the snapshot of an async record.
type notifyMsg struct {
	Snapshot session.Snapshot
}

// exitedMsg reports that gdb exited.
type exitedMsg struct {
	Status session.ExitStatus
}

// processErrorMsg reports a failure of the gdb process or its pipes.
type processErrorMsg struct {
	Err error
}

// resultMsg is the outcome of a command sent from the input line.
type resultMsg struct {
	Command  string
	Snapshot session.Snapshot
	Err      error
}

// interruptMsg is the outcome of an interrupt request.
type interruptMsg struct {
	Err error
}
