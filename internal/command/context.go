package command

import "strconv"

// EnvironmentCd sets gdb's working directory.
func EnvironmentCd(dir string) (string, error) {
	if err := requireText("-environment-cd", "dir", dir); err != nil {
		return "", err
	}
	return line("-environment-cd", Quote(dir)), nil
}

// EnvironmentDirectory adds dirs to the source search path, first
// resetting it to the default when reset is set.
func EnvironmentDirectory(reset bool, dirs ...string) string {
	return pathCommand("-environment-directory", reset, dirs)
}

// EnvironmentPath adds dirs to the object file search path, first
// resetting it to the default when reset is set.
func EnvironmentPath(reset bool, dirs ...string) string {
	return pathCommand("-environment-path", reset, dirs)
}

func pathCommand(cmd string, reset bool, dirs []string) string {
	parts := []string{flag(reset, "-r")}
	for _, d := range dirs {
		parts = append(parts, Quote(d))
	}
	return line(cmd, parts...)
}

// EnvironmentPwd shows gdb's working directory.
func EnvironmentPwd() string { return "-environment-pwd" }

// ThreadInfo describes thread id, or all threads when id is 0.
func ThreadInfo(id int) (string, error) {
	if err := requireCount("-thread-info", "id", id); err != nil {
		return "", err
	}
	if id == 0 {
		return "-thread-info", nil
	}
	return line("-thread-info", strconv.Itoa(id)), nil
}

// ThreadListIDs lists thread ids.
func ThreadListIDs() string { return "-thread-list-ids" }

// ThreadSelect selects thread id.
func ThreadSelect(id int) (string, error) {
	if err := requireID("-thread-select", "id", id); err != nil {
		return "", err
	}
	return line("-thread-select", strconv.Itoa(id)), nil
}

// StackInfoFrame describes the selected frame.
func StackInfoFrame() string { return "-stack-info-frame" }

// StackInfoDepth returns the stack depth, counting at most maxDepth frames
// when maxDepth is positive.
func StackInfoDepth(maxDepth int) (string, error) {
	if err := requireCount("-stack-info-depth", "max depth", maxDepth); err != nil {
		return "", err
	}
	if maxDepth == 0 {
		return "-stack-info-depth", nil
	}
	return line("-stack-info-depth", strconv.Itoa(maxDepth)), nil
}

// PrintValues selects how much of each variable the stack listings print.
type PrintValues int

const (
	NoValues     PrintValues = iota // names only
	AllValues                       // names and values
	SimpleValues                    // values of simple types only
)

func (p PrintValues) arg() (string, error) {
	switch p {
	case NoValues:
		return "--no-values", nil
	case AllValues:
		return "--all-values", nil
	case SimpleValues:
		return "--simple-values", nil
	}
	return "", ErrInvalidMode
}

// FrameRange limits a listing to frames Low..High. A nil range means all
// frames.
type FrameRange struct {
	Low, High int
}

func (r *FrameRange) args(cmd string) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	if r.Low < 0 || r.High < r.Low {
		return nil, &ArgumentError{Command: cmd, Arg: "frame range", Err: ErrInvalidNumber}
	}
	return []string{strconv.Itoa(r.Low), strconv.Itoa(r.High)}, nil
}

// StackOptions are common flags of the stack listings.
type StackOptions struct {
	SkipUnavailable bool
	NoFrameFilters  bool
}

func (o StackOptions) args() []string {
	return []string{flag(o.NoFrameFilters, "--no-frame-filters"), flag(o.SkipUnavailable, "--skip-unavailable")}
}

func stackListing(cmd string, print PrintValues, opts StackOptions, frames *FrameRange) (string, error) {
	pv, err := print.arg()
	if err != nil {
		return "", &ArgumentError{Command: cmd, Arg: "print values", Err: err}
	}
	r, err := frames.args(cmd)
	if err != nil {
		return "", err
	}
	args := append(opts.args(), pv)
	return line(cmd, append(args, r...)...), nil
}

// StackListArguments lists the arguments of the frames in frames (all
// frames when nil).
func StackListArguments(print PrintValues, opts StackOptions, frames *FrameRange) (string, error) {
	return stackListing("-stack-list-arguments", print, opts, frames)
}

// StackListFrames lists the frames in frames (all frames when nil).
func StackListFrames(frames *FrameRange) (string, error) {
	r, err := frames.args("-stack-list-frames")
	if err != nil {
		return "", err
	}
	return line("-stack-list-frames", r...), nil
}

// StackListLocals lists the locals of the selected frame.
func StackListLocals(print PrintValues, opts StackOptions) (string, error) {
	return stackListing("-stack-list-locals", print, opts, nil)
}

// StackListVariables lists arguments and locals of the selected frame.
func StackListVariables(print PrintValues, opts StackOptions) (string, error) {
	return stackListing("-stack-list-variables", print, opts, nil)
}

// StackSelectFrame selects frame level n.
func StackSelectFrame(n int) (string, error) {
	if err := requireCount("-stack-select-frame", "frame", n); err != nil {
		return "", err
	}
	return line("-stack-select-frame", strconv.Itoa(n)), nil
}
