package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/gdbmi/internal/command"
	"github.com/tessro/gdbmi/internal/session"
)

// interruptCommand typed at the prompt interrupts the program instead of
// being sent to gdb.
const interruptCommand = "interrupt"

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Interrupt):
			cmds = append(cmds, m.interrupt())
		case key.Matches(msg, m.keys.Submit):
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case key.Matches(msg, m.keys.Run):
			cmds = append(cmds, m.send(command.ExecRun()))
		case key.Matches(msg, m.keys.Continue):
			cmds = append(cmds, m.send(command.ExecContinue()))
		case key.Matches(msg, m.keys.Next):
			cmds = append(cmds, m.send(command.ExecNext()))
		case key.Matches(msg, m.keys.Step):
			cmds = append(cmds, m.send(command.ExecStep()))
		case key.Matches(msg, m.keys.Finish):
			cmds = append(cmds, m.send(command.ExecFinish()))
		case key.Matches(msg, m.keys.Clear):
			m.inputLine.Clear()
			m.inputLine.ResetHistoryNavigation()
		case key.Matches(msg, m.keys.HistoryUp):
			m.inputLine.HistoryUp()
		case key.Matches(msg, m.keys.HistoryDown):
			m.inputLine.HistoryDown()
		case key.Matches(msg, m.keys.PageUp):
			m.output.PageUp()
		case key.Matches(msg, m.keys.PageDown):
			m.output.PageDown()
		case key.Matches(msg, m.keys.Top):
			m.output.ScrollToTop()
		case key.Matches(msg, m.keys.Bottom):
			m.output.ScrollToBottom()
		default:
			cmds = append(cmds, m.inputLine.Update(msg))
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.output.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			m.output.viewport.LineDown(3)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.ready = true

	case consoleMsg:
		m.output.AppendConsole(msg.Text)
		cmds = append(cmds, m.waitForEvent())

	case programMsg:
		m.output.AppendProgram(msg.Text)
		cmds = append(cmds, m.waitForEvent())

	case readyMsg:
		m.header.SetState(msg.Snapshot.State, len(m.debugger.Pids()))
		m.output.AppendRecord(msg.Snapshot.String())
		cmds = append(cmds, m.waitForEvent())

	case notifyMsg:
		m.header.SetState(msg.Snapshot.State, len(m.debugger.Pids()))
		m.output.AppendRecord("=" + msg.Snapshot.String())
		cmds = append(cmds, m.waitForEvent())

	case exitedMsg:
		m.exited = true
		m.header.SetExited(msg.Status)
		m.output.AppendNotice(exitText(msg.Status))
		m.inputLine.SetFocused(false)
		cmds = append(cmds, m.waitForEvent())

	case processErrorMsg:
		m.output.AppendError(msg.Err.Error())
		m.helpBar.SetError(msg.Err.Error())
		cmds = append(cmds, m.waitForEvent())

	case resultMsg:
		m.handleResult(msg)

	case interruptMsg:
		if msg.Err != nil {
			m.output.AppendError("interrupt: " + msg.Err.Error())
			m.helpBar.SetError(msg.Err.Error())
		}

	default:
		cmds = append(cmds, m.inputLine.Update(msg))
	}

	return m, tea.Batch(cmds...)
}

// submit sends the input line to gdb. Execution shorthands such as "next"
// are expanded first.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.inputLine.Value())
	if text == "" {
		return nil
	}
	m.inputLine.AddToHistory(text)
	m.inputLine.Clear()

	if cmd, ok := command.Shorthand(text); ok {
		text = cmd
	}
	return m.send(text)
}

// send echoes text and runs it, unless gdb has already exited.
func (m *Model) send(text string) tea.Cmd {
	m.helpBar.ClearError()
	m.output.AppendCommand(text)

	if m.exited {
		m.output.AppendError("gdb has exited")
		return nil
	}
	if text == interruptCommand {
		return m.interrupt()
	}
	return m.exec(text)
}

// exec runs text and reports its result. A later command replaces this
// one's pending handler; the wait then ends when the TUI quits.
func (m *Model) exec(text string) tea.Cmd {
	d, ctx := m.debugger, m.ctx
	return func() tea.Msg {
		snap, err := d.Exec(ctx, text)
		return resultMsg{Command: text, Snapshot: snap, Err: err}
	}
}

// interrupt stops the running program.
func (m *Model) interrupt() tea.Cmd {
	d := m.debugger
	return func() tea.Msg {
		return interruptMsg{Err: d.Interrupt(nil)}
	}
}

func (m *Model) handleResult(msg resultMsg) {
	var resErr *session.ResultError
	switch {
	case msg.Err == nil:
		// The record itself was shown when it arrived.
	case errors.As(msg.Err, &resErr):
		m.output.AppendError(resErr.Error())
	case errors.Is(msg.Err, context.Canceled):
	case errors.Is(msg.Err, session.ErrClosed):
		m.output.AppendError(fmt.Sprintf("%s: gdb has exited", msg.Command))
	default:
		slog.Debug("command failed", "command", msg.Command, "error", msg.Err)
		m.output.AppendError(fmt.Sprintf("%s: %v", msg.Command, msg.Err))
	}
}

// waitForEvent waits for the next session message.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
