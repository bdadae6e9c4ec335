package session

import "github.com/tessro/gdbmi/internal/event"

// events holds one emitter per event kind.
type events struct {
	ready      event.Emitter[Snapshot]
	notify     event.Emitter[Snapshot]
	console    event.Emitter[string]
	program    event.Emitter[string]
	errors     event.Emitter[Snapshot]
	closed     event.Emitter[ExitStatus]
	exited     event.Emitter[ExitStatus]
	processErr event.Emitter[error]
}

// OnReady registers fn for every terminal record (^ and *), after any
// pending command handler has run. The returned function unsubscribes.
func (s *Session) OnReady(fn func(Snapshot)) func() {
	return s.events.ready.OnEvent(fn)
}

// OnNotify registers fn for status and notify records (+ and =).
func (s *Session) OnNotify(fn func(Snapshot)) func() {
	return s.events.notify.OnEvent(fn)
}

// OnConsoleOutput registers fn for console and log stream records (~ and &).
// The text has its surrounding quotes removed but escapes left in place.
func (s *Session) OnConsoleOutput(fn func(string)) func() {
	return s.events.console.OnEvent(fn)
}

// OnProgramOutput registers fn for output of the debugged program.
func (s *Session) OnProgramOutput(fn func(string)) func() {
	return s.events.program.OnEvent(fn)
}

// OnError registers fn for terminal records whose state is "error".
func (s *Session) OnError(fn func(Snapshot)) func() {
	return s.events.errors.OnEvent(fn)
}

// OnClosed registers fn for the debugger's streams closing.
func (s *Session) OnClosed(fn func(ExitStatus)) func() {
	return s.events.closed.OnEvent(fn)
}

// OnExited registers fn for the debugger process exiting.
func (s *Session) OnExited(fn func(ExitStatus)) func() {
	return s.events.exited.OnEvent(fn)
}

// OnProcessError registers fn for failures of the debugger process or its
// pipes, including failed command writes.
func (s *Session) OnProcessError(fn func(error)) func() {
	return s.events.processErr.OnEvent(fn)
}
