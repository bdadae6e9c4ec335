// Package transcript decodes recorded GDB/MI output and renders the
// records as JSON, YAML, Markdown or HTML.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/tessro/gdbmi/internal/mi"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how records are rendered.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat parses a format name. "md" and "yml" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Entry is one decoded line of a transcript.
type Entry struct {
	Line       int       `json:"line" yaml:"line"`
	Token      string    `json:"token,omitempty" yaml:"token,omitempty"`
	Descriptor string    `json:"descriptor" yaml:"descriptor"`
	Class      string    `json:"class,omitempty" yaml:"class,omitempty"`
	Fields     mi.Fields `json:"fields,omitempty" yaml:"fields,omitempty"`
	Text       string    `json:"text,omitempty" yaml:"text,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Decode reads an MI transcript and returns its records in order. Prompt
// and blank lines are skipped; line numbers refer to the input.
func Decode(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line == mi.PromptMarker {
			continue
		}
		entries = append(entries, newEntry(n, mi.ParseLine(line)))
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("reading transcript: %w", err)
	}
	return entries, nil
}

func newEntry(n int, rec mi.Record) Entry {
	e := Entry{
		Line:       n,
		Token:      rec.Token,
		Descriptor: rec.Descriptor.String(),
		Class:      rec.Class,
		Fields:     rec.Fields,
	}
	switch rec.Descriptor.Kind() {
	case mi.KindConsole:
		e.Text = mi.Unquote(rec.Payload)
	case mi.KindProgram:
		if rec.Descriptor == mi.DescriptorTarget {
			e.Text = mi.Unquote(rec.Payload)
		} else {
			e.Text = rec.Payload
		}
	}
	if rec.Err != nil {
		e.Error = rec.Err.Error()
	}
	return e
}

// Write renders entries to w in format f.
func Write(w io.Writer, entries []Entry, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []Entry{}
		}
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(entries))
		return err
	case FormatHTML:
		return renderHTML(w, Markdown(entries))
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Markdown renders entries as a Markdown table.
func Markdown(entries []Entry) string {
	var b strings.Builder
	b.WriteString("# GDB/MI transcript\n\n")
	if len(entries) == 0 {
		b.WriteString("_No records._\n")
		return b.String()
	}
	b.WriteString("| Line | Kind | Class | Detail |\n")
	b.WriteString("|---:|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			e.Line, e.Descriptor, cell(e.Class), cell(detail(e)))
	}
	return b.String()
}

func detail(e Entry) string {
	if e.Error != "" {
		return "error: " + e.Error
	}
	if e.Text != "" {
		return e.Text
	}
	if len(e.Fields) == 0 {
		return ""
	}
	b, err := json.Marshal(e.Fields)
	if err != nil {
		return ""
	}
	return string(b)
}

// cell makes s safe inside a table cell.
func cell(s string) string {
	if s == "" {
		return " "
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r", "")
	return "`" + strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "`", "'") + "`"
}

func renderHTML(w io.Writer, markdown string) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
