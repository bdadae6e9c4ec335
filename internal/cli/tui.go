package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/gdbmi/internal/gdb"
	"github.com/tessro/gdbmi/internal/paths"
	"github.com/tessro/gdbmi/internal/tui"
)

var tuiInferiorTTY bool

var tuiCmd = &cobra.Command{
	Use:   "tui [flags] [--] [program [args...]]",
	Short: "Launch the terminal user interface",
	Long:  "Start gdb on program and drive it from an interactive terminal UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(cmd); err != nil {
			return err
		}
		pc := processConfig(cmd, args, tuiInferiorTTY)
		// The UI owns the terminal; gdb's stderr goes to the log only.
		pc.LogStderr = true
		proc := gdb.New(pc)

		// Subscribe before starting so the startup banner is not missed.
		events := tui.Subscribe(proc.Session())
		defer events.Close()

		if err := proc.Start(); err != nil {
			return fmt.Errorf("start gdb: %w", err)
		}
		defer func() {
			if err := proc.Stop(); err != nil && !errors.Is(err, gdb.ErrNotRunning) {
				slog.Warn("failed to stop gdb", "error", err)
			}
		}()

		historyPath, err := paths.HistoryPath()
		if err != nil {
			slog.Warn("history disabled", "error", err)
			historyPath = ""
		}
		return tui.Run(cmd.Context(), proc.Session(), events, tui.Options{
			Program:     pc.Program,
			HistoryPath: historyPath,
		})
	},
}

// errNoTerminal is returned when tui is run with redirected stdin or stdout.
var errNoTerminal = errors.New("gdbmi tui needs a terminal; use gdbmi run for scripted sessions")

func requireTerminal(cmd *cobra.Command) error {
	for _, s := range []any{cmd.InOrStdin(), cmd.OutOrStdout()} {
		f, ok := s.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return errNoTerminal
		}
	}
	return nil
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiInferiorTTY, "inferior-tty", false, "run the program on its own terminal (overrides gdb.inferior-tty)")
	rootCmd.AddCommand(tuiCmd)
}
