package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// maxEntries caps the scrollback.
const maxEntries = 2000

// entryKind says where an output entry came from.
type entryKind int

const (
	entryCommand entryKind = iota // command typed by the user
	entryConsole                  // gdb console stream
	entryProgram                  // debuggee output
	entryRecord                   // result or async record
	entryNotice                   // lifecycle notices
	entryError                    // error results and failures
)

type outputEntry struct {
	kind     entryKind
	text     string
	rendered string // styled and wrapped to the current width
}

// OutputView is the scrolling transcript of the session.
type OutputView struct {
	entries  []outputEntry
	width    int
	height   int
	viewport viewport.Model
	ready    bool

	// console text arrives in fragments; pending holds the unterminated tail
	pending string
}

// NewOutputView creates a new output view component.
func NewOutputView() OutputView {
	return OutputView{}
}

// SetSize updates the component dimensions.
func (v *OutputView) SetSize(width, height int) {
	v.width = width
	v.height = height

	// Account for border
	contentWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	if !v.ready {
		v.viewport = viewport.New(contentWidth, contentHeight)
		v.ready = true
	} else {
		v.viewport.Width = contentWidth
		v.viewport.Height = contentHeight
	}

	for i := range v.entries {
		v.entries[i].rendered = v.render(v.entries[i])
	}
	v.updateContent()
}

// AppendCommand records a command the user sent.
func (v *OutputView) AppendCommand(text string) {
	v.flushConsole()
	v.append(entryCommand, text)
}

// AppendConsole adds console stream text. GDB splits console output at
// arbitrary points, so text is joined until a newline completes a line.
func (v *OutputView) AppendConsole(text string) {
	text = v.pending + text
	v.pending = ""
	lines := strings.Split(text, "\n")
	v.pending = lines[len(lines)-1]
	for _, l := range lines[:len(lines)-1] {
		v.append(entryConsole, l)
	}
}

// AppendProgram adds a line of debuggee output.
func (v *OutputView) AppendProgram(text string) {
	v.flushConsole()
	v.append(entryProgram, text)
}

// AppendRecord adds a decoded record summary.
func (v *OutputView) AppendRecord(text string) {
	v.flushConsole()
	v.append(entryRecord, text)
}

// AppendNotice adds a lifecycle notice.
func (v *OutputView) AppendNotice(text string) {
	v.flushConsole()
	v.append(entryNotice, text)
}

// AppendError adds an error.
func (v *OutputView) AppendError(text string) {
	v.flushConsole()
	v.append(entryError, text)
}

// Len returns the number of entries.
func (v *OutputView) Len() int {
	return len(v.entries)
}

func (v *OutputView) flushConsole() {
	if v.pending != "" {
		p := v.pending
		v.pending = ""
		v.append(entryConsole, p)
	}
}

func (v *OutputView) append(kind entryKind, text string) {
	e := outputEntry{kind: kind, text: text}
	if v.ready {
		e.rendered = v.render(e)
	}
	v.entries = append(v.entries, e)
	if len(v.entries) > maxEntries {
		v.entries = v.entries[len(v.entries)-maxEntries:]
	}

	atBottom := v.viewport.AtBottom()
	v.updateContent()
	if atBottom {
		v.viewport.GotoBottom()
	}
}

// PageUp scrolls up by one page.
func (v *OutputView) PageUp() {
	v.viewport.ViewUp()
}

// PageDown scrolls down by one page.
func (v *OutputView) PageDown() {
	v.viewport.ViewDown()
}

// ScrollToTop scrolls to the top.
func (v *OutputView) ScrollToTop() {
	v.viewport.GotoTop()
}

// ScrollToBottom scrolls to the bottom.
func (v *OutputView) ScrollToBottom() {
	v.viewport.GotoBottom()
}

// updateContent refreshes the viewport content from entries.
func (v *OutputView) updateContent() {
	if !v.ready {
		return
	}
	lines := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		lines = append(lines, e.rendered)
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
}

func (v *OutputView) render(e outputEntry) string {
	text := wordwrap.String(e.text, max(v.viewport.Width, 1))
	switch e.kind {
	case entryCommand:
		return outputCommandStyle.Render("> " + text)
	case entryProgram:
		return outputProgramStyle.Render(text)
	case entryRecord:
		return outputRecordStyle.Render(text)
	case entryNotice:
		return outputNoticeStyle.Render(text)
	case entryError:
		return outputErrorStyle.Render(text)
	default:
		return outputConsoleStyle.Render(text)
	}
}

// View renders the output view.
func (v OutputView) View() string {
	var content string
	if len(v.entries) == 0 {
		content = outputEmptyStyle.Width(max(v.width-2, 1)).Height(max(v.height-2, 1)).Render("Waiting for gdb...")
	} else {
		content = v.viewport.View()
	}
	return outputBorderStyle.Width(max(v.width-2, 1)).Render(lipgloss.PlaceVertical(max(v.height-2, 1), lipgloss.Top, content))
}
