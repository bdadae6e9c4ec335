package command

// ExecRun starts the program.
func ExecRun() string { return "-exec-run" }

// ExecContinue resumes the program.
func ExecContinue() string { return "-exec-continue" }

// ExecFinish runs until the selected frame returns.
func ExecFinish() string { return "-exec-finish" }

// ExecStep steps into the next source line.
func ExecStep() string { return "-exec-step" }

// ExecStepInstruction steps one machine instruction.
func ExecStepInstruction() string { return "-exec-step-instruction" }

// ExecNext steps over the next source line.
func ExecNext() string { return "-exec-next" }

// ExecNextInstruction steps over one machine instruction.
func ExecNextInstruction() string { return "-exec-next-instruction" }

// ExecReturn pops the selected frame without executing it.
func ExecReturn() string { return "-exec-return" }

// ExecInterrupt asks gdb to stop the program. Session.Interrupt signals
// the debuggee directly and works while gdb is busy.
func ExecInterrupt() string { return "-exec-interrupt" }

// ExecJump resumes execution at location.
func ExecJump(location string) (string, error) {
	if err := requireText("-exec-jump", "location", location); err != nil {
		return "", err
	}
	return line("-exec-jump", location), nil
}

// ExecUntil runs until location, or the next source line when location is
// empty.
func ExecUntil(location string) string {
	return line("-exec-until", location)
}

// ExecArguments sets the arguments for the next run.
func ExecArguments(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return line("-exec-arguments", quoted...)
}

// shorthands maps the execution commands people type out of habit to their
// MI builders.
var shorthands = map[string]func() string{
	"run":      ExecRun,
	"r":        ExecRun,
	"continue": ExecContinue,
	"c":        ExecContinue,
	"next":     ExecNext,
	"n":        ExecNext,
	"step":     ExecStep,
	"s":        ExecStep,
	"stepi":    ExecStepInstruction,
	"si":       ExecStepInstruction,
	"nexti":    ExecNextInstruction,
	"ni":       ExecNextInstruction,
	"finish":   ExecFinish,
	"fin":      ExecFinish,
}

// Shorthand expands an execution command typed without MI syntax, such as
// "next" or "c", to its MI command. ok is false for any other input.
func Shorthand(name string) (cmd string, ok bool) {
	build, ok := shorthands[name]
	if !ok {
		return "", false
	}
	return build(), true
}
