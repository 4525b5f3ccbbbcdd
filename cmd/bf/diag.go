package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slowlang/bf/compiler/parse"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	posStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	caretStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
)

// diagnostic renders e with the source line it points to and a caret under the column.
func diagnostic(name string, text []byte, e parse.Error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", posStyle.Render(fmt.Sprintf("%s:%d:%d:", name, e.Line, e.Col)), errorStyle.Render(e.Kind.String()))

	if text == nil {
		return b.String()
	}

	line := sourceLine(text, e.Line)
	if line == nil {
		return b.String()
	}

	b.WriteString("\t")
	b.Write(line)
	b.WriteString("\n\t")

	// keep tabs so the caret lines up
	for i := 0; i < e.Col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}

	if e.Col-1 > len(line) {
		b.WriteString(strings.Repeat(" ", e.Col-1-len(line)))
	}

	b.WriteString(caretStyle.Render("^"))
	b.WriteString("\n")

	if e.Pos >= len(text) {
		fmt.Fprintf(&b, "\t%s\n", posStyle.Render("unclosed bracket at end of input"))
	}

	return b.String()
}

// sourceLine returns 1-based line n without the line break.
func sourceLine(text []byte, n int) []byte {
	for i := 1; i < n; i++ {
		j := bytes.IndexByte(text, '\n')
		if j < 0 {
			return nil
		}

		text = text[j+1:]
	}

	if j := bytes.IndexByte(text, '\n'); j >= 0 {
		text = text[:j]
	}

	return bytes.TrimSuffix(text, []byte{'\r'})
}
