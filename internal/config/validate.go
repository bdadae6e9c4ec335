package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tessro/gdbmi/internal/logging"
)

// Validation errors.
var (
	ErrInvalidCapacity  = errors.New("log capacity must be between 1 and 1000000")
	ErrInvalidLogLevel  = errors.New("log level must be debug, info, warn or error")
	ErrGDBNotFound      = errors.New("gdb binary not found")
	ErrGDBNotExecutable = errors.New("gdb binary is not executable")
	ErrEmptyGDBArg      = errors.New("gdb args contain an empty element")
	ErrUnknownKey       = errors.New("unknown config key")
)

// MaxCapacity is the largest accepted log capacity.
const MaxCapacity = 1_000_000

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every field, returning the first problem found.
func (c *Config) Validate() error {
	if err := ValidateGDBPath(c.GDB.Path); err != nil {
		return err
	}
	if err := ValidateGDBArgs(c.GDB.Args); err != nil {
		return err
	}
	if err := ValidateCapacity("log.console-capacity", c.Log.ConsoleCapacity); err != nil {
		return err
	}
	if err := ValidateCapacity("log.target-capacity", c.Log.TargetCapacity); err != nil {
		return err
	}
	return ValidateLogLevel(c.Log.Level)
}

// ValidateCapacity validates a log capacity. Zero means unset.
func ValidateCapacity(field string, n int) error {
	if n == 0 {
		return nil
	}
	if n < 1 || n > MaxCapacity {
		return &ValidationError{
			Field:   field,
			Value:   strconv.Itoa(n),
			Message: fmt.Sprintf("must be between 1 and %d", MaxCapacity),
			Err:     ErrInvalidCapacity,
		}
	}
	return nil
}

// ValidateLogLevel validates a log level name. Empty means unset.
func ValidateLogLevel(level string) error {
	if level == "" || logging.ValidLevel(level) {
		return nil
	}
	return &ValidationError{
		Field:   "log.level",
		Value:   level,
		Message: "must be debug, info, warn or error",
		Err:     ErrInvalidLogLevel,
	}
}

// ValidateGDBPath validates the gdb binary. Bare names are resolved on PATH
// at launch and are not checked here; explicit paths must exist and be
// executable.
func ValidateGDBPath(path string) error {
	if path == "" || !strings.ContainsRune(path, os.PathSeparator) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{
			Field:   "gdb.path",
			Value:   path,
			Message: "does not exist",
			Err:     ErrGDBNotFound,
		}
	}
	if info.IsDir() || info.Mode().Perm()&0111 == 0 {
		return &ValidationError{
			Field:   "gdb.path",
			Value:   path,
			Message: "is not executable",
			Err:     ErrGDBNotExecutable,
		}
	}
	return nil
}

// ValidateGDBArgs rejects empty flag elements.
func ValidateGDBArgs(args []string) error {
	for i, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("gdb.args[%d]", i),
				Message: "cannot be empty",
				Err:     ErrEmptyGDBArg,
			}
		}
	}
	return nil
}
