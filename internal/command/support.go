package command

import "strings"

// InfoMICommand asks whether gdb knows the MI command name (with or
// without the leading dash).
func InfoMICommand(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "-")
	if err := requireText("-info-gdb-mi-command", "name", name); err != nil {
		return "", err
	}
	return line("-info-gdb-mi-command", name), nil
}

// ListFeatures lists the MI features gdb supports.
func ListFeatures() string { return "-list-features" }

// ListTargetFeatures lists the features of the current target.
func ListTargetFeatures() string { return "-list-target-features" }

// GDBExit asks gdb to exit.
func GDBExit() string { return "-gdb-exit" }

// GDBSet sets a gdb setting, e.g. GDBSet("print pretty", "on").
func GDBSet(name, value string) (string, error) {
	name = strings.TrimSpace(name)
	if err := requireText("-gdb-set", "name", name); err != nil {
		return "", err
	}
	return line("-gdb-set", name, strings.TrimSpace(value)), nil
}

// GDBShow shows a gdb setting.
func GDBShow(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := requireText("-gdb-show", "name", name); err != nil {
		return "", err
	}
	return line("-gdb-show", name), nil
}

// GDBVersion prints the gdb version banner to the console stream.
func GDBVersion() string { return "-gdb-version" }

// ThreadGroupOptions are the flags of -list-thread-groups.
type ThreadGroupOptions struct {
	Available bool
	Recurse   bool
	Groups    []string
}

// ListThreadGroups lists inferiors, or the threads of the named groups.
func ListThreadGroups(opts ThreadGroupOptions) string {
	parts := []string{flag(opts.Available, "--available")}
	if opts.Recurse {
		parts = append(parts, "--recurse", "1")
	}
	return line("-list-thread-groups", append(parts, opts.Groups...)...)
}

// InfoOS queries operating system information of the given type, or the
// available types when kind is empty.
func InfoOS(kind string) string {
	return line("-info-os", kind)
}

// AddInferior creates a new inferior.
func AddInferior() string { return "-add-inferior" }

// InterpreterExec runs command through another interpreter, usually
// "console".
func InterpreterExec(interpreter, command string) (string, error) {
	const cmd = "-interpreter-exec"
	if err := requireText(cmd, "interpreter", interpreter); err != nil {
		return "", err
	}
	if err := requireText(cmd, "command", command); err != nil {
		return "", err
	}
	return line(cmd, interpreter, Quote(command)), nil
}

// InferiorTTYSet sets the terminal of future runs.
func InferiorTTYSet(tty string) (string, error) {
	if err := requireText("-inferior-tty-set", "tty", tty); err != nil {
		return "", err
	}
	return line("-inferior-tty-set", tty), nil
}

// InferiorTTYShow shows the terminal of future runs.
func InferiorTTYShow() string { return "-inferior-tty-show" }

// EnableTimings turns per-command timing records on or off.
func EnableTimings(on bool) string {
	if on {
		return "-enable-timings yes"
	}
	return "-enable-timings no"
}
