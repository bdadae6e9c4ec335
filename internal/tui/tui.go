// Package tui provides the Bubbletea-based debugger console for gdbmi.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/gdbmi/internal/session"
)

// Debugger is the part of a session the TUI drives.
type Debugger interface {
	Exec(ctx context.Context, text string) (session.Snapshot, error)
	Interrupt(h session.Handler) error
	Pids() []string
}

// Model is the main Bubbletea model for the gdbmi TUI.
type Model struct {
	// Window dimensions
	width  int
	height int

	ready bool

	// Components
	header    Header
	output    OutputView
	inputLine InputLine
	helpBar   HelpBar

	debugger Debugger
	events   <-chan tea.Msg

	// ctx bounds commands still waiting for their result when the TUI quits
	ctx context.Context

	exited bool

	keys KeyBindings
}

// Options configures the TUI.
type Options struct {
	// Program is shown in the header.
	Program string

	// HistoryPath persists the command history. Empty disables it.
	HistoryPath string
}

// New creates a TUI model driving d and reading session messages from
// events.
func New(ctx context.Context, d Debugger, events <-chan tea.Msg, opts Options) Model {
	input := NewInputLine()
	input.SetFocused(true)
	return Model{
		header:    NewHeader(opts.Program),
		output:    NewOutputView(),
		inputLine: input,
		helpBar:   NewHelpBar(),
		debugger:  d,
		events:    events,
		ctx:       ctx,
		keys:      DefaultKeyBindings(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEvent())
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.header.View(), m.output.View(), m.inputLine.View(), m.helpBar.View())
}

// updateLayout sizes the components to the window.
func (m *Model) updateLayout() {
	m.header.SetWidth(m.width)
	m.helpBar.SetWidth(m.width)
	m.inputLine.SetWidth(m.width)
	// header, input line and help bar take one row each
	m.output.SetSize(m.width, max(m.height-3, 3))
}

// Run starts the TUI. events must already be subscribed to the session
// behind d; Run returns when the user quits.
func Run(ctx context.Context, d Debugger, events *EventStream, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer events.Close()

	m := New(ctx, d, events.C(), opts)
	if opts.HistoryPath != "" {
		if err := m.inputLine.LoadHistory(opts.HistoryPath); err != nil {
			slog.Warn("failed to load history", "path", opts.HistoryPath, "error", err)
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	slog.Debug("tui.Run: running program", "program", opts.Program)
	final, err := p.Run()
	slog.Debug("tui.Run: program exited", "error", err)

	if fm, ok := final.(Model); ok && opts.HistoryPath != "" {
		if herr := fm.inputLine.SaveHistory(opts.HistoryPath); herr != nil {
			slog.Warn("failed to save history", "path", opts.HistoryPath, "error", herr)
		}
	}
	return err
}
