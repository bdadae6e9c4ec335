package gdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/tessro/gdbmi/internal/command"
	"github.com/tessro/gdbmi/internal/logging"
	"github.com/tessro/gdbmi/internal/session"
)

// Errors returned by process operations.
var (
	ErrAlreadyRunning = errors.New("gdb is already running")
	ErrNotRunning     = errors.New("gdb is not running")
	ErrShuttingDown   = errors.New("gdb is shutting down")
	ErrFinished       = errors.New("gdb session has ended")
	ErrInvalidPID     = errors.New("invalid pid")
)

// StopTimeout is the default duration to wait for each shutdown step.
const StopTimeout = 5 * time.Second

// DefaultPath is the debugger binary used when Config.Path is empty.
const DefaultPath = "gdb"

// DefaultArgs are passed to gdb when Config.Args is nil.
var DefaultArgs = []string{"--readnow", "--quiet"}

// readBufferSize is the size of a single stdout read.
const readBufferSize = 32 * 1024

// Config configures a Process.
type Config struct {
	// Path is the gdb binary. Defaults to DefaultPath.
	Path string

	// Args are extra gdb flags placed after --interpreter=mi. A nil slice
	// selects DefaultArgs; an empty slice passes none.
	Args []string

	// Program and ProgramArgs name the debuggee. Program may be empty to
	// start gdb without a file loaded.
	Program     string
	ProgramArgs []string

	// WorkDir is the working directory for gdb. Empty means the current one.
	WorkDir string

	// Env holds extra environment entries ("KEY=value") for gdb.
	Env []string

	// InferiorTTY runs the debuggee on its own pseudo-terminal. Its output
	// feeds the session's program log instead of mixing with MI records.
	InferiorTTY bool

	// LogStderr if true logs gdb's stderr to slog.
	LogStderr bool

	// Session configures the session decoding gdb's output.
	Session session.Config
}

// Process manages a gdb subprocess with pipe-based I/O.
type Process struct {
	mu sync.RWMutex

	// +checklocks:mu
	state State
	// +checklocks:mu
	cmd *exec.Cmd
	// +checklocks:mu
	stdin io.WriteCloser
	// +checklocks:mu
	startedAt time.Time
	// +checklocks:mu
	onStateChange func(old, new State)
	// +checklocks:mu
	waitDone chan struct{}

	config  Config
	session *session.Session
	log     *slog.Logger
}

// New creates a Process and its session. The process is not started.
func New(config Config) *Process {
	p := &Process{
		state:  StateStopped,
		config: config,
	}
	p.session = session.New(p, p, config.Session)
	p.log = slog.With("component", "gdb", "session", p.session.ID())
	return p
}

// Session returns the session decoding this process's output.
func (p *Process) Session() *session.Session {
	return p.session
}

// State returns the current process state.
func (p *Process) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// IsRunning returns true if the process is running or starting.
func (p *Process) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state == StateRunning || p.state == StateStarting
}

// StartedAt returns when the process was started.
func (p *Process) StartedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.startedAt
}

// Pid returns gdb's own pid, or 0 when not running.
func (p *Process) Pid() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// OnStateChange sets a callback for state changes.
func (p *Process) OnStateChange(fn func(old, new State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onStateChange = fn
}

// setState changes the state and calls the callback.
func (p *Process) setState(new State) {
	p.mu.Lock()
	old := p.state
	p.state = new
	callback := p.onStateChange
	p.mu.Unlock()

	if callback != nil && old != new {
		callback(old, new)
	}
}

// Argv returns the gdb argument list for config. ttyName, when set, is
// passed as the inferior terminal.
func Argv(config Config, ttyName string) []string {
	args := config.Args
	if args == nil {
		args = DefaultArgs
	}

	argv := []string{"--interpreter=mi"}
	argv = append(argv, args...)
	if ttyName != "" {
		argv = append(argv, "--tty="+ttyName)
	}
	if config.Program != "" {
		argv = append(argv, "--args", config.Program)
		argv = append(argv, config.ProgramArgs...)
	}
	return argv
}

// Start spawns gdb. Launch failures are returned and nothing is decoded.
// A Process runs once; after gdb exits Start returns ErrFinished.
func (p *Process) Start() error {
	p.mu.Lock()

	if p.state != StateStopped {
		currentState := p.state
		p.mu.Unlock()
		p.log.Debug("Process.Start: already running", "state", currentState)
		return ErrAlreadyRunning
	}
	if p.session.Closed() {
		p.mu.Unlock()
		return ErrFinished
	}

	p.state = StateStarting
	p.startedAt = time.Now()

	var ptmx, tty *os.File
	if p.config.InferiorTTY {
		var err error
		ptmx, tty, err = pty.Open()
		if err != nil {
			p.state = StateStopped
			p.mu.Unlock()
			p.log.Error("Process.Start: failed to open inferior pty", "error", err)
			return fmt.Errorf("open inferior pty: %w", err)
		}
	}
	closeTTY := func() {
		if ptmx != nil {
			ptmx.Close()
			tty.Close()
		}
	}

	path := p.config.Path
	if path == "" {
		path = DefaultPath
	}
	ttyName := ""
	if tty != nil {
		ttyName = tty.Name()
	}

	cmd := exec.Command(path, Argv(p.config, ttyName)...)
	cmd.Dir = p.config.WorkDir
	if len(p.config.Env) > 0 {
		cmd.Env = append(os.Environ(), p.config.Env...)
	}
	// Own process group, so a terminal ^C reaches the debuggee through
	// Interrupt rather than killing gdb.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		closeTTY()
		p.state = StateStopped
		p.mu.Unlock()
		p.log.Error("Process.Start: stdin pipe failed", "error", err)
		return fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		closeTTY()
		p.state = StateStopped
		p.mu.Unlock()
		p.log.Error("Process.Start: stdout pipe failed", "error", err)
		return fmt.Errorf("stdout pipe: %w", err)
	}

	var stderr io.ReadCloser
	if p.config.LogStderr {
		stderr, err = cmd.StderrPipe()
		if err != nil {
			stdin.Close()
			stdout.Close()
			closeTTY()
			p.state = StateStopped
			p.mu.Unlock()
			p.log.Error("Process.Start: stderr pipe failed", "error", err)
			return fmt.Errorf("stderr pipe: %w", err)
		}
	}

	p.log.Debug("Process.Start: starting gdb", "cmd", cmd.Path, "args", cmd.Args[1:], "dir", cmd.Dir)
	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		if stderr != nil {
			stderr.Close()
		}
		closeTTY()
		p.state = StateStopped
		p.mu.Unlock()
		p.log.Error("Process.Start: gdb start failed", "error", err)
		return fmt.Errorf("start gdb: %w", err)
	}

	if stderr != nil {
		go p.logStderr(stderr)
	}
	if ptmx != nil {
		go p.runTTYLoop(ptmx)
	}

	p.cmd = cmd
	p.stdin = stdin
	p.waitDone = make(chan struct{})
	waitDone := p.waitDone
	p.mu.Unlock()

	readDone := make(chan struct{})
	go p.runReadLoop(stdout, readDone)
	go p.wait(cmd, readDone, waitDone, closeTTY)

	p.setState(StateRunning)
	p.log.Info("Process.Start: complete", "pid", cmd.Process.Pid)
	return nil
}

// runReadLoop feeds gdb's stdout to the session in raw chunks. Framing is
// left to the session's line assembler.
func (p *Process) runReadLoop(stdout io.Reader, done chan<- struct{}) {
	defer logging.LogPanic("gdb-read-loop", nil)
	defer close(done)

	buf := make([]byte, readBufferSize)
	var total int64
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			total += int64(n)
			p.session.Feed(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				p.session.ProcessError(fmt.Errorf("read gdb stdout: %w", err))
			}
			p.log.Debug("Process.runReadLoop: stdout finished", "bytes_read", total, "error", err)
			p.session.Flush()
			return
		}
	}
}

// runTTYLoop feeds the inferior terminal to the session's program log.
func (p *Process) runTTYLoop(ptmx *os.File) {
	defer logging.LogPanic("gdb-tty-loop", nil)

	buf := make([]byte, readBufferSize)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			p.session.FeedProgram(buf[:n])
		}
		if err != nil {
			// Linux reports EIO once the last slave descriptor closes.
			p.log.Debug("Process.runTTYLoop: inferior tty finished", "error", err)
			return
		}
	}
}

func (p *Process) logStderr(stderr io.Reader) {
	defer logging.LogPanic("gdb-stderr", nil)

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		p.log.Warn("gdb.stderr", "line", scanner.Text())
	}
}

// wait reaps gdb once its stdout is drained, then reports the exit to the
// session.
func (p *Process) wait(cmd *exec.Cmd, readDone <-chan struct{}, waitDone chan struct{}, closeTTY func()) {
	defer logging.LogPanic("gdb-wait", nil)
	defer close(waitDone)

	<-readDone
	err := cmd.Wait()
	status := exitStatus(cmd.ProcessState)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		p.session.ProcessError(fmt.Errorf("wait for gdb: %w", err))
	}
	p.log.Info("gdb exited", "code", status.Code, "signal", status.Signal)

	closeTTY()

	p.mu.Lock()
	if p.stdin != nil {
		p.stdin.Close()
		p.stdin = nil
	}
	p.mu.Unlock()

	p.session.Exited(status)
	p.session.Close(status)
	p.setState(StateStopped)
}

func exitStatus(ps *os.ProcessState) session.ExitStatus {
	if ps == nil {
		return session.ExitStatus{Code: -1}
	}
	status := session.ExitStatus{Code: ps.ExitCode()}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		status.Signal = unix.SignalName(ws.Signal())
	}
	return status
}

// Write sends raw command text to gdb's stdin. It implements the session's
// command sink.
func (p *Process) Write(b []byte) (int, error) {
	p.mu.RLock()
	stdin := p.stdin
	p.mu.RUnlock()

	if stdin == nil {
		return 0, ErrNotRunning
	}
	return stdin.Write(b)
}

// Signal sends SIGINT to the debuggee with the given pid. It implements
// session.Signaler.
func (p *Process) Signal(pid string) error {
	n, err := strconv.Atoi(pid)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPID, pid)
	}
	if err := unix.Kill(n, unix.SIGINT); err != nil {
		return fmt.Errorf("signal pid %d: %w", n, err)
	}
	return nil
}

// Stop gracefully stops gdb.
func (p *Process) Stop() error {
	return p.StopWithTimeout(StopTimeout)
}

// StopWithTimeout asks gdb to exit with -gdb-exit, then escalates to
// SIGTERM and finally SIGKILL, waiting up to timeout after each step.
func (p *Process) StopWithTimeout(timeout time.Duration) error {
	p.mu.Lock()

	if p.state == StateStopped {
		p.mu.Unlock()
		return ErrNotRunning
	}
	if p.state == StateStopping {
		p.mu.Unlock()
		return ErrShuttingDown
	}

	p.state = StateStopping
	cmd := p.cmd
	stdin := p.stdin
	waitDone := p.waitDone
	p.mu.Unlock()

	if cmd == nil || cmd.Process == nil || waitDone == nil {
		p.setState(StateStopped)
		return nil
	}

	if stdin != nil {
		if _, err := io.WriteString(stdin, command.GDBExit()+"\n"); err != nil {
			p.log.Debug("Process.Stop: -gdb-exit write failed", "error", err)
		}
	}

	select {
	case <-waitDone:
		return nil
	case <-time.After(timeout):
	}

	p.log.Debug("gdb did not exit, sending SIGTERM", "timeout", timeout)
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		<-waitDone
		return nil
	}

	select {
	case <-waitDone:
	case <-time.After(timeout):
		p.log.Debug("gdb did not exit gracefully, sending SIGKILL", "timeout", timeout)
		_ = cmd.Process.Kill()
		<-waitDone
	}
	return nil
}

// Wait blocks until gdb has exited and its session closed.
func (p *Process) Wait() {
	p.mu.RLock()
	waitDone := p.waitDone
	p.mu.RUnlock()

	if waitDone != nil {
		<-waitDone
	}
}
