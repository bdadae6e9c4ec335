package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tessro/gdbmi/internal/command"
	"github.com/tessro/gdbmi/internal/gdb"
	"github.com/tessro/gdbmi/internal/logging"
	"github.com/tessro/gdbmi/internal/mi"
	"github.com/tessro/gdbmi/internal/session"
)

var (
	runRecords     bool
	runInferiorTTY bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [--] [program [args...]]",
	Short: "Debug a program from an MI command prompt",
	Long: `Start gdb on program and read MI commands from stdin, one per line.
Console and program output is printed as it arrives. Type "interrupt" or
press Ctrl+C to stop the running program; end input (Ctrl+D) to quit.

Execution shorthands such as run, continue (c), next (n), step (s) and
finish send the matching -exec command.`,
	Example: `  gdbmi run ./hello
  gdbmi run -- ./server --port 8080`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	proc := gdb.New(processConfig(cmd, args, runInferiorTTY))
	s := proc.Session()

	p := newPrinter(cmd.OutOrStdout(), runRecords)
	detach := p.attach(s)
	defer detach()

	exited := make(chan session.ExitStatus, 1)
	unsubscribe := s.OnExited(func(status session.ExitStatus) {
		select {
		case exited <- status:
		default:
		}
	})
	defer unsubscribe()

	if err := proc.Start(); err != nil {
		return fmt.Errorf("start gdb: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	r := &repl{session: s, stop: proc.Stop, out: p}
	return r.run(cmd.Context(), cmd.InOrStdin(), sigCh, exited)
}

// processConfig builds the gdb configuration for a run or tui command.
// The first argument is the program, the rest are its arguments.
func processConfig(cmd *cobra.Command, args []string, inferiorTTY bool) gdb.Config {
	var program string
	var programArgs []string
	if len(args) > 0 {
		program, programArgs = args[0], args[1:]
	}
	pc := cfg.ProcessConfig(program, programArgs)
	if cmd.Flags().Changed("inferior-tty") {
		pc.InferiorTTY = inferiorTTY
	}
	return pc
}

// commander is the part of a session the prompt drives.
type commander interface {
	IssueCommand(text string, h session.Handler) error
	Interrupt(h session.Handler) error
}

// repl reads commands line by line and sends them to gdb.
type repl struct {
	session commander
	stop    func() error
	out     *printer
}

// run loops until input ends, gdb exits, or ctx is done. A signal on
// sigCh interrupts the program.
func (r *repl) run(ctx context.Context, in io.Reader, sigCh <-chan os.Signal, exited <-chan session.ExitStatus) error {
	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	go func() {
		defer logging.LogPanic("repl-input", nil)
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-sigCh:
			r.interrupt()

		case status := <-exited:
			if status.Signal != "" {
				return fmt.Errorf("gdb killed by %s", status.Signal)
			}
			if status.Code != 0 {
				return fmt.Errorf("gdb exited with code %d", status.Code)
			}
			return nil

		case line, ok := <-lines:
			if !ok {
				return r.quit()
			}
			r.handle(strings.TrimSpace(line))

		case <-ctx.Done():
			if err := r.quit(); err != nil {
				slog.Warn("failed to stop gdb", "error", err)
			}
			return ctx.Err()
		}
	}
}

func (r *repl) handle(line string) {
	switch line {
	case "":
	case interruptCommand:
		r.interrupt()
	default:
		if cmd, ok := command.Shorthand(line); ok {
			line = cmd
		}
		if err := r.session.IssueCommand(line, nil); err != nil {
			r.out.errorf("%s: %v", line, err)
		}
	}
}

func (r *repl) interrupt() {
	if err := r.session.Interrupt(nil); err != nil {
		r.out.errorf("interrupt: %v", err)
	}
}

func (r *repl) quit() error {
	if err := r.stop(); err != nil && !errors.Is(err, gdb.ErrNotRunning) {
		return fmt.Errorf("stop gdb: %w", err)
	}
	return nil
}

// interruptCommand typed at the prompt interrupts the program instead of
// being sent to gdb.
const interruptCommand = "interrupt"

// printer writes session events to the terminal. Events arrive on the
// gdb read loop while the prompt reports errors from the main goroutine.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	records bool
}

func newPrinter(out io.Writer, records bool) *printer {
	return &printer{out: out, records: records}
}

// attach subscribes to s and returns a function that unsubscribes.
func (p *printer) attach(s *session.Session) func() {
	unsubs := []func(){
		s.OnConsoleOutput(func(text string) { p.write(mi.Unescape(text)) }),
		s.OnProgramOutput(func(line string) { p.write(line + "\n") }),
		s.OnReady(func(snap session.Snapshot) {
			if p.records && snap.State != session.StateError {
				p.write("^" + snap.String() + "\n")
			}
		}),
		s.OnNotify(func(snap session.Snapshot) {
			if p.records {
				p.write("=" + snap.String() + "\n")
			}
		}),
		s.OnError(func(snap session.Snapshot) {
			msg, _ := snap.Fields.String("msg")
			p.errorf("%s", msg)
		}),
		s.OnExited(func(status session.ExitStatus) {
			if status.Signal != "" {
				p.write("gdb killed by " + status.Signal + "\n")
				return
			}
			p.write(fmt.Sprintf("gdb exited (%d)\n", status.Code))
		}),
		s.OnProcessError(func(err error) { p.errorf("%v", err) }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (p *printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, s)
}

func (p *printer) errorf(format string, args ...any) {
	p.write("error: " + fmt.Sprintf(format, args...) + "\n")
}

func init() {
	runCmd.Flags().BoolVar(&runRecords, "records", true, "print result and async record summaries")
	runCmd.Flags().BoolVar(&runInferiorTTY, "inferior-tty", false, "run the program on its own terminal (overrides gdb.inferior-tty)")
	rootCmd.AddCommand(runCmd)
}
