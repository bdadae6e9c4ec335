package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/gdbmi/internal/config"
	"github.com/tessro/gdbmi/internal/logging"
	"github.com/tessro/gdbmi/internal/paths"
)

// Global flag values.
var (
	gdbmiDir   string
	configPath string
	gdbPath    string
	logLevel   string
	logFile    string
	verbose    bool
)

// cfg is the effective configuration, loaded before every command.
var cfg *config.Config

// logCleanup closes the log file opened by setupLogging.
var logCleanup func()

var rootCmd = &cobra.Command{
	Use:   "gdbmi",
	Short: "GDB/MI front end",
	Long:  "gdbmi drives gdb through its machine interface: it decodes the MI stream, tracks the debugger state and correlates commands with their results.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyDir(); err != nil {
			return err
		}
		if err := loadConfig(); err != nil {
			return err
		}
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
}

// applyDir sets GDBMI_DIR from --gdbmi-dir so all path helpers use it.
func applyDir() error {
	if gdbmiDir != "" {
		return os.Setenv(paths.EnvDir, gdbmiDir)
	}
	return nil
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig() error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if gdbPath != "" {
		if err := config.ValidateGDBPath(gdbPath); err != nil {
			return err
		}
		cfg.GDB.Path = gdbPath
	}
	if logLevel != "" {
		if err := config.ValidateLogLevel(logLevel); err != nil {
			return err
		}
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	return nil
}

func setupLogging() error {
	level := logging.ParseLevel(cfg.GetLogLevel())
	var (
		cleanup func()
		err     error
	)
	if verbose {
		cleanup, err = logging.SetupMulti(cfg.GetLogFile(), os.Stderr, level)
	} else {
		cleanup, err = logging.Setup(cfg.GetLogFile(), level)
	}
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	logCleanup = cleanup
	return nil
}

// GDBMIDir returns the value of the --gdbmi-dir flag.
func GDBMIDir() string {
	return gdbmiDir
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&gdbmiDir, "gdbmi-dir", "", "base directory for gdbmi data (overrides ~/.gdbmi)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/gdbmi/config.toml)")
	rootCmd.PersistentFlags().StringVar(&gdbPath, "gdb", "", "gdb binary (overrides gdb.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default ~/.gdbmi/gdbmi.log)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
}

func Execute() error {
	return rootCmd.Execute()
}
