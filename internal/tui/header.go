package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/tessro/gdbmi/internal/session"
)

// Header shows the debugged program and the session state.
type Header struct {
	width   int
	program string
	state   string
	pids    int

	exited bool
	status session.ExitStatus
}

// NewHeader creates a new header component.
func NewHeader(program string) Header {
	return Header{program: program, state: session.StateIdle}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetState updates the session state display.
func (h *Header) SetState(state string, pids int) {
	h.state = state
	h.pids = pids
}

// SetExited marks the debugger as gone.
func (h *Header) SetExited(status session.ExitStatus) {
	h.exited = true
	h.status = status
}

// View renders the header.
func (h Header) View() string {
	brand := headerBrandStyle.Render("gdbmi")

	var right string
	switch {
	case h.exited:
		right = headerExitedStyle.Render(exitText(h.status))
	case h.state == session.StateRunning:
		right = headerRunningStyle.Render(h.stateText())
	default:
		right = headerStateStyle.Render(h.stateText())
	}

	avail := h.width - lipgloss.Width(brand) - lipgloss.Width(right)
	program := ""
	if avail > 1 {
		program = headerProgramStyle.Render(truncate.StringWithTail(h.program, uint(avail), "…"))
	}

	gap := h.width - lipgloss.Width(brand) - lipgloss.Width(program) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	spacer := headerContainerStyle.Render(fmt.Sprintf("%*s", gap, ""))

	return lipgloss.JoinHorizontal(lipgloss.Top, brand, program, spacer, right)
}

func (h Header) stateText() string {
	if h.pids > 0 {
		return fmt.Sprintf("%s · %d proc", h.state, h.pids)
	}
	return h.state
}

func exitText(s session.ExitStatus) string {
	if s.Signal != "" {
		return "gdb killed by " + s.Signal
	}
	return fmt.Sprintf("gdb exited (%d)", s.Code)
}
