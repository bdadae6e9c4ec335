// Package session tracks one debugger session over the GDB/MI stream.
//
// A Session consumes raw stdout chunks, keeps the current async state and
// last decoded fields, correlates each issued command with the terminal
// record that completes it, keeps bounded console and program output logs,
// and tracks debuggee pids for out-of-band interrupts. Every decoded record
// and lifecycle transition is surfaced through typed events.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tessro/gdbmi/internal/id"
	"github.com/tessro/gdbmi/internal/mi"
)

// Well-known values of the session state.
const (
	StateIdle               = "idle"
	StateCommand            = "command"
	StateRunning            = "running"
	StateError              = "error"
	StateThreadGroupStarted = "thread-group-started"
	StateThreadGroupExited  = "thread-group-exited"
)

// ErrClosed is returned when a command is issued after the session closed.
var ErrClosed = errors.New("session is closed")

// Config configures a Session.
type Config struct {
	// ConsoleLogCapacity bounds the GDB console log (default 256 entries).
	ConsoleLogCapacity int

	// TargetLogCapacity bounds the program output log (default 256 entries).
	TargetLogCapacity int
}

// Snapshot is the session state as of one record.
type Snapshot struct {
	State  string
	Fields mi.Fields
}

// String renders the state followed by the fields as compact JSON, e.g.
// `done {"msg":"ok"}`. Empty fields are omitted.
func (s Snapshot) String() string {
	if len(s.Fields) == 0 {
		return s.State
	}
	b, err := json.Marshal(s.Fields)
	if err != nil {
		return s.State
	}
	return s.State + " " + string(b)
}

// Handler receives the snapshot of the terminal record that completed a
// command. Handlers run while Feed holds its lock: a handler may call
// IssueCommand, but must not call Exec, Feed or Flush, which would wait on
// records that Feed cannot deliver until the handler returns. Start a
// goroutine for a follow-up Exec.
type Handler func(Snapshot)

// Signaler delivers an interrupt to a debuggee process.
type Signaler interface {
	Signal(pid string) error
}

// SignalFunc adapts a function to Signaler.
type SignalFunc func(pid string) error

// Signal calls f(pid).
func (f SignalFunc) Signal(pid string) error { return f(pid) }

// Session decodes the MI stream of one debugger process.
type Session struct {
	id  string
	log *slog.Logger

	stdin    io.Writer
	signaler Signaler

	// feedMu serializes stream input so lines are processed strictly in
	// arrival order.
	feedMu sync.Mutex
	// +checklocks:feedMu
	lines *mi.LineAssembler
	// +checklocks:feedMu
	programLines *mi.LineAssembler

	mu sync.Mutex
	// +checklocks:mu
	state string
	// +checklocks:mu
	fields mi.Fields
	// +checklocks:mu
	pending Handler
	// +checklocks:mu
	pids pidSet
	// +checklocks:mu
	closed bool

	console *RingBuffer
	target  *RingBuffer

	events events
}

// New creates a session writing commands to stdin and delivering
// interrupts through signaler. signaler may be nil, in which case Interrupt
// only issues the synchronizing empty command.
func New(stdin io.Writer, signaler Signaler, cfg Config) *Session {
	sid := id.Short()
	return &Session{
		id:           sid,
		log:          slog.With("component", "session", "session", sid),
		stdin:        stdin,
		signaler:     signaler,
		lines:        mi.NewLineAssembler(),
		programLines: mi.NewRawLineAssembler(),
		state:        StateIdle,
		fields:       mi.Fields{},
		pids:         newPidSet(),
		console:      NewRingBuffer(cfg.ConsoleLogCapacity),
		target:       NewRingBuffer(cfg.TargetLogCapacity),
	}
}

// ID returns the session identifier used in log lines.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current state and last decoded fields.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// +checklocks:s.mu
func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, Fields: s.fields}
}

// State returns the current session state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Closed reports whether the debugger process has closed or exited.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ConsoleOutput returns the last n console log entries, oldest first, each
// followed by a newline. n <= 0 returns the whole log.
func (s *Session) ConsoleOutput(n int) string {
	return s.console.Read(n)
}

// ProgramOutput returns the last n program output entries, oldest first,
// each followed by a newline. n <= 0 returns the whole log.
func (s *Session) ProgramOutput(n int) string {
	return s.target.Read(n)
}

// Feed consumes a chunk of the debugger's stdout. Every line completed by
// the chunk is classified, applied and emitted before Feed returns.
// Feed must not be called from an event handler.
func (s *Session) Feed(chunk []byte) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	for _, line := range s.lines.Feed(chunk) {
		if s.Closed() {
			return
		}
		s.handleLine(line)
	}
}

// FeedProgram consumes output read from the debuggee's own terminal, when
// the program runs on a separate tty. Lines go to the program output log.
func (s *Session) FeedProgram(chunk []byte) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	for _, line := range s.programLines.Feed(chunk) {
		s.emitProgram(line)
	}
}

// Flush processes a final unterminated line, if any. The process host calls
// it when stdout reaches EOF.
func (s *Session) Flush() {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	if line, ok := s.lines.Flush(); ok && !s.Closed() {
		s.handleLine(line)
	}
	if line, ok := s.programLines.Flush(); ok {
		s.emitProgram(line)
	}
}

// handleLine runs the classify, mutate, dispatch, emit sequence for one line.
//
// +checklocks:s.feedMu
func (s *Session) handleLine(line string) {
	rec := mi.ParseLine(line)
	if rec.Err != nil {
		s.log.Warn("failed to decode record fields", "error", rec.Err, "line", line)
	}

	s.mu.Lock()
	if rec.HasClass {
		s.state = rec.Class
	}
	if rec.Fields != nil {
		s.fields = rec.Fields
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	switch rec.Descriptor.Kind() {
	case mi.KindConsole:
		s.console.Append(mi.Unquote(rec.Payload))
		s.events.console.Emit(mi.TrimQuotes(rec.Payload))

	case mi.KindAsync:
		s.trackThreadGroup(snap)
		s.events.notify.Emit(snap)

	case mi.KindTerminal:
		if snap.State != StateRunning {
			s.dispatchTerminal(snap)
		}
		if snap.State == StateError {
			s.events.errors.Emit(snap)
		}
		s.events.ready.Emit(snap)

	default:
		s.emitProgram(rec.Payload)
	}
}

// emitProgram logs one line of program output and emits it. Blank lines
// are kept so the log and the event stream agree.
func (s *Session) emitProgram(line string) {
	s.target.AppendLine(line)
	s.events.program.Emit(line)
}

// IssueCommand registers h as the pending handler and sends text to the
// debugger. A command issued while another is outstanding replaces its
// handler without error; the earlier handler is never called. Empty text
// sends nothing and only arms the handler for the next terminal record.
//
// Write failures are reported through OnProcessError, not returned. The
// only error is ErrClosed.
func (s *Session) IssueCommand(text string, h Handler) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.pending != nil {
		s.log.Debug("replacing pending command handler", "command", text)
	}
	s.state = StateCommand
	s.fields = mi.Fields{}
	s.pending = h
	s.mu.Unlock()

	if text == "" {
		return nil
	}

	s.log.Debug("issuing command", "command", text)
	if _, err := io.WriteString(s.stdin, text+"\n"); err != nil {
		s.log.Error("failed to write command", "command", text, "error", err)
		s.events.processErr.Emit(fmt.Errorf("write command %q: %w", text, err))
	}
	return nil
}

// dispatchTerminal completes the in-flight command and returns the session
// to idle. The pending slot is cleared before the handler runs, so a
// command the handler issues keeps its own handler; the next classed
// terminal record completes it.
func (s *Session) dispatchTerminal(snap Snapshot) {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	h := s.pending
	s.pending = nil
	s.mu.Unlock()

	if h != nil {
		h(snap)
	}

	s.mu.Lock()
	if !s.closed {
		s.state = StateIdle
	}
	s.mu.Unlock()
}

// ExitStatus describes how the debugger process ended.
type ExitStatus struct {
	// Code is the exit code, or -1 when the process was killed by a signal.
	Code int
	// Signal names the terminating signal, if any.
	Signal string
}

// Close records that the debugger's streams closed and emits Closed. The
// pending handler is dropped; further commands fail with ErrClosed.
func (s *Session) Close(status ExitStatus) {
	s.shutdown()
	s.log.Debug("debugger closed", "code", status.Code, "signal", status.Signal)
	s.events.closed.Emit(status)
}

// Exited records that the debugger process exited and emits Exited.
func (s *Session) Exited(status ExitStatus) {
	s.shutdown()
	s.log.Debug("debugger exited", "code", status.Code, "signal", status.Signal)
	s.events.exited.Emit(status)
}

// ProcessError reports a failure of the debugger process or its pipes.
func (s *Session) ProcessError(err error) {
	s.log.Error("debugger process error", "error", err)
	s.events.processErr.Emit(err)
}

func (s *Session) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
}
