// Package config loads the gdbmi configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tessro/gdbmi/internal/gdb"
	"github.com/tessro/gdbmi/internal/paths"
	"github.com/tessro/gdbmi/internal/session"
)

// Defaults for unset values.
const (
	DefaultGDBPath  = gdb.DefaultPath
	DefaultCapacity = session.DefaultLogCapacity
	DefaultLogLevel = "info"
)

// Config is the gdbmi configuration.
type Config struct {
	GDB GDBConfig `toml:"gdb"`
	Log LogConfig `toml:"log"`
}

// GDBConfig configures the debugger process.
type GDBConfig struct {
	// Path is the gdb binary, looked up on PATH when it has no slash.
	Path string `toml:"path"`

	// Args are extra gdb flags; --interpreter=mi is always added. Unset
	// means gdb.DefaultArgs.
	Args []string `toml:"args"`

	// InferiorTTY runs the debuggee on its own pseudo-terminal.
	InferiorTTY bool `toml:"inferior-tty"`
}

// LogConfig configures output logs and diagnostics.
type LogConfig struct {
	// ConsoleCapacity bounds the gdb console log.
	ConsoleCapacity int `toml:"console-capacity"`

	// TargetCapacity bounds the program output log.
	TargetCapacity int `toml:"target-capacity"`

	// Level is the slog level: debug, info, warn or error.
	Level string `toml:"level"`

	// File is the diagnostic log path. Empty means ~/.gdbmi/gdbmi.log.
	File string `toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		GDB: GDBConfig{
			Path: DefaultGDBPath,
			Args: append([]string(nil), gdb.DefaultArgs...),
		},
		Log: LogConfig{
			ConsoleCapacity: DefaultCapacity,
			TargetCapacity:  DefaultCapacity,
			Level:           DefaultLogLevel,
		},
	}
}

// Load loads the configuration from paths.ConfigPath().
// A missing file yields Default().
func Load() (*Config, error) {
	path, err := paths.ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration at path.
// A missing file yields Default().
func LoadFromPath(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &ValidationError{
			Field:   "config",
			Value:   strings.Join(keys, ", "),
			Message: "unknown keys",
			Err:     ErrUnknownKey,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Write encodes c as TOML to path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	if err := c.Encode(f); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes c as TOML to w.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// GetGDBPath returns the configured gdb binary or the default.
func (c *Config) GetGDBPath() string {
	if c != nil && c.GDB.Path != "" {
		return c.GDB.Path
	}
	return DefaultGDBPath
}

// GetGDBArgs returns the configured gdb flags. Nil selects gdb.DefaultArgs.
func (c *Config) GetGDBArgs() []string {
	if c == nil {
		return nil
	}
	return c.GDB.Args
}

// GetLogLevel returns the configured log level or the default.
func (c *Config) GetLogLevel() string {
	if c != nil && c.Log.Level != "" {
		return c.Log.Level
	}
	return DefaultLogLevel
}

// GetLogFile returns the configured log file, or "" for the default path.
func (c *Config) GetLogFile() string {
	if c == nil {
		return ""
	}
	return c.Log.File
}

// SessionConfig returns the session log capacities.
func (c *Config) SessionConfig() session.Config {
	cfg := session.Config{ConsoleLogCapacity: DefaultCapacity, TargetLogCapacity: DefaultCapacity}
	if c == nil {
		return cfg
	}
	if c.Log.ConsoleCapacity > 0 {
		cfg.ConsoleLogCapacity = c.Log.ConsoleCapacity
	}
	if c.Log.TargetCapacity > 0 {
		cfg.TargetLogCapacity = c.Log.TargetCapacity
	}
	return cfg
}

// ProcessConfig returns the gdb process configuration for debugging
// program with args.
func (c *Config) ProcessConfig(program string, args []string) gdb.Config {
	cfg := gdb.Config{
		Path:        c.GetGDBPath(),
		Args:        c.GetGDBArgs(),
		Program:     program,
		ProgramArgs: args,
		LogStderr:   true,
		Session:     c.SessionConfig(),
	}
	if c != nil {
		cfg.InferiorTTY = c.GDB.InferiorTTY
	}
	return cfg
}
