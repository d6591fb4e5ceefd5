package build

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dsyme/weave/internal/eval"
)

var (
	// headerStyle for the build banner
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for per-document success lines
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for evaluation failure lines
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(0, 1)
)

func formatHeader(w io.Writer, cfg Config, count int) {
	evalState := "on"
	if !cfg.Eval {
		evalState = "off"
	}
	fmt.Fprintln(w, headerStyle.Render("weave build"))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d document(s) · format=%s · engine=%s · eval=%s",
		count, cfg.Format, cfg.Engine, evalState)))
}

func formatDocument(w io.Writer, inPath, outPath string) {
	fmt.Fprintf(w, "%s %s %s\n",
		successStyle.Render("✓"),
		inPath,
		dimStyle.Render("→ "+outPath))
}

func formatFailure(w io.Writer, f eval.Failure) {
	location := f.File
	if location == "" {
		location = "<session>"
	}
	fmt.Fprintf(w, "%s %s: %v\n",
		errorStyle.Render("✗"),
		location,
		f.Err)
}

func formatSummary(w io.Writer, s *Summary) {
	status := successStyle.Render("ok")
	if s.Failures > 0 {
		status = errorStyle.Render(fmt.Sprintf("%d failure(s)", s.Failures))
	}
	fmt.Fprintln(w, boxStyle.Render(fmt.Sprintf(
		"%d document(s), %d snippet(s) evaluated · %s",
		s.Documents, s.Snippets, status)))
}
