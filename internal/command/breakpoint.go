package command

import (
	"strconv"
	"strings"

	"github.com/tessro/gdbmi/internal/mi"
)

// BreakOptions are the flags of -break-insert and -dprintf-insert.
type BreakOptions struct {
	Temporary  bool // -t
	Hardware   bool // -h, ignored by -dprintf-insert
	Force      bool // -f, create a pending breakpoint if location is unknown
	Disabled   bool // -d
	Tracepoint bool // -a, ignored by -dprintf-insert

	Condition   string // -c
	IgnoreCount int    // -i, 0 means none
	ThreadID    int    // -p, 0 means any thread
}

func (o BreakOptions) args(cmd string, dprintf bool) ([]string, error) {
	if err := requireCount(cmd, "ignore count", o.IgnoreCount); err != nil {
		return nil, err
	}
	if err := requireCount(cmd, "thread id", o.ThreadID); err != nil {
		return nil, err
	}

	var args []string
	args = append(args, flag(o.Temporary, "-t"))
	if !dprintf {
		args = append(args, flag(o.Hardware, "-h"))
	}
	args = append(args, flag(o.Force, "-f"), flag(o.Disabled, "-d"))
	if !dprintf {
		args = append(args, flag(o.Tracepoint, "-a"))
	}
	if o.Condition != "" {
		args = append(args, "-c", Quote(o.Condition))
	}
	if o.IgnoreCount > 0 {
		args = append(args, "-i", strconv.Itoa(o.IgnoreCount))
	}
	if o.ThreadID > 0 {
		args = append(args, "-p", strconv.Itoa(o.ThreadID))
	}
	return args, nil
}

// BreakInsert inserts a breakpoint at location.
func BreakInsert(location string, opts BreakOptions) (string, error) {
	const cmd = "-break-insert"
	if err := requireText(cmd, "location", location); err != nil {
		return "", err
	}
	args, err := opts.args(cmd, false)
	if err != nil {
		return "", err
	}
	return line(cmd, append(args, location)...), nil
}

// DPrintfInsert inserts a dynamic printf at location.
func DPrintfInsert(location, format string, arguments []string, opts BreakOptions) (string, error) {
	const cmd = "-dprintf-insert"
	if err := requireText(cmd, "location", location); err != nil {
		return "", err
	}
	args, err := opts.args(cmd, true)
	if err != nil {
		return "", err
	}
	args = append(args, location, mi.Quote(format))
	args = append(args, arguments...)
	return line(cmd, args...), nil
}

// BreakAfter ignores breakpoint id for the next count hits.
func BreakAfter(id, count int) (string, error) {
	const cmd = "-break-after"
	if err := requireID(cmd, "id", id); err != nil {
		return "", err
	}
	if err := requireCount(cmd, "count", count); err != nil {
		return "", err
	}
	return line(cmd, strconv.Itoa(id), strconv.Itoa(count)), nil
}

// BreakCommands sets the CLI commands run when breakpoint id is hit.
// No commands clears them.
func BreakCommands(id int, commands ...string) (string, error) {
	const cmd = "-break-commands"
	if err := requireID(cmd, "id", id); err != nil {
		return "", err
	}
	quoted := make([]string, len(commands))
	for i, c := range commands {
		quoted[i] = mi.Quote(c)
	}
	return line(cmd, append([]string{strconv.Itoa(id)}, quoted...)...), nil
}

// BreakCondition sets the condition of breakpoint id. An empty expression
// makes it unconditional.
func BreakCondition(id int, expr string) (string, error) {
	const cmd = "-break-condition"
	if err := requireID(cmd, "id", id); err != nil {
		return "", err
	}
	return line(cmd, strconv.Itoa(id), expr), nil
}

// BreakDelete deletes breakpoints.
func BreakDelete(list ...int) (string, error) {
	s, err := ids("-break-delete", list)
	if err != nil {
		return "", err
	}
	return line("-break-delete", s), nil
}

// BreakDisable disables breakpoints.
func BreakDisable(list ...int) (string, error) {
	s, err := ids("-break-disable", list)
	if err != nil {
		return "", err
	}
	return line("-break-disable", s), nil
}

// BreakEnable enables breakpoints.
func BreakEnable(list ...int) (string, error) {
	s, err := ids("-break-enable", list)
	if err != nil {
		return "", err
	}
	return line("-break-enable", s), nil
}

// BreakInfo describes breakpoint id.
func BreakInfo(id int) (string, error) {
	if err := requireID("-break-info", "id", id); err != nil {
		return "", err
	}
	return line("-break-info", strconv.Itoa(id)), nil
}

// BreakList lists all breakpoints.
func BreakList() string { return "-break-list" }

// BreakPasscount sets the pass count of tracepoint id.
func BreakPasscount(id, passcount int) (string, error) {
	const cmd = "-break-passcount"
	if err := requireID(cmd, "id", id); err != nil {
		return "", err
	}
	if err := requireCount(cmd, "passcount", passcount); err != nil {
		return "", err
	}
	return line(cmd, strconv.Itoa(id), strconv.Itoa(passcount)), nil
}

// WatchMode selects what access triggers a watchpoint.
type WatchMode int

const (
	WatchWrite     WatchMode = iota // default
	WatchRead                       // -r
	WatchReadWrite                  // -a
)

// ParseWatchMode parses "w", "r" or "rw".
func ParseWatchMode(s string) (WatchMode, error) {
	switch strings.ToLower(s) {
	case "", "w", "write":
		return WatchWrite, nil
	case "r", "read":
		return WatchRead, nil
	case "rw", "a", "access":
		return WatchReadWrite, nil
	}
	return 0, &ArgumentError{Command: "-break-watch", Arg: "mode " + strconv.Quote(s), Err: ErrInvalidMode}
}

// BreakWatch sets a watchpoint on expr.
func BreakWatch(expr string, mode WatchMode) (string, error) {
	const cmd = "-break-watch"
	if err := requireText(cmd, "expression", expr); err != nil {
		return "", err
	}
	var f string
	switch mode {
	case WatchWrite:
	case WatchRead:
		f = "-r"
	case WatchReadWrite:
		f = "-a"
	default:
		return "", &ArgumentError{Command: cmd, Arg: "mode", Err: ErrInvalidMode}
	}
	return line(cmd, f, expr), nil
}

// CatchOptions are the flags of the -catch-* commands.
type CatchOptions struct {
	Temporary bool
	Disabled  bool
}

// CatchLoad stops when a shared library matching regexp is loaded.
func CatchLoad(regexp string, opts CatchOptions) (string, error) {
	return catch("-catch-load", regexp, opts)
}

// CatchUnload stops when a shared library matching regexp is unloaded.
func CatchUnload(regexp string, opts CatchOptions) (string, error) {
	return catch("-catch-unload", regexp, opts)
}

func catch(cmd, regexp string, opts CatchOptions) (string, error) {
	if err := requireText(cmd, "regexp", regexp); err != nil {
		return "", err
	}
	return line(cmd, flag(opts.Temporary, "-t"), flag(opts.Disabled, "-d"), Quote(regexp)), nil
}
