package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/dsyme/weave/internal/doc"
	"github.com/dsyme/weave/internal/eval"
)

//go:embed templates/default.tex.tmpl
var defaultLaTeXTemplate string

// LaTeX renders documents as standalone LaTeX files. Code goes into
// lstlisting environments, output into verbatim, and prose is emitted with
// LaTeX special characters escaped.
type LaTeX struct {
	tmpl *template.Template
}

type latexPage struct {
	Title string
	Body  string
}

// NewLaTeX creates a LaTeX renderer; an empty templatePath uses the built-in
// preamble template.
func NewLaTeX(templatePath string) (*LaTeX, error) {
	text := defaultLaTeXTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}
		text = string(data)
	}

	tmpl, err := template.New("page").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &LaTeX{tmpl: tmpl}, nil
}

func (l *LaTeX) Extension() string { return ".tex" }

func (l *LaTeX) RenderDocument(d *doc.Document, resolve BlockResolver) ([]byte, error) {
	var body bytes.Buffer

	for _, seg := range d.Segments {
		if seg.Snippet == nil {
			body.WriteString(escapeLaTeX(seg.Prose))
			body.WriteString("\n")
			continue
		}

		sn := seg.Snippet
		if !sn.Hidden {
			fmt.Fprintf(&body, "\\begin{lstlisting}\n%s\n\\end{lstlisting}\n", sn.Source)
		}

		blocks, err := resolve(sn)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			writeBlockLaTeX(&body, b)
		}
	}

	title := d.Title
	if title == "" {
		title = d.Path
	}

	var out bytes.Buffer
	if err := l.tmpl.Execute(&out, latexPage{Title: escapeLaTeX(title), Body: body.String()}); err != nil {
		return nil, fmt.Errorf("template execution failed: %w", err)
	}
	return out.Bytes(), nil
}

func writeBlockLaTeX(buf *bytes.Buffer, b eval.Block) {
	switch b.Kind {
	case eval.BlockCode:
		fmt.Fprintf(buf, "\\begin{lstlisting}\n%s\n\\end{lstlisting}\n", b.Content)
	case eval.BlockMarkup:
		buf.WriteString(b.Content)
		buf.WriteString("\n")
	default:
		fmt.Fprintf(buf, "\\begin{verbatim}\n%s\n\\end{verbatim}\n", b.Content)
	}
}

var latexEscaper = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"&", "\\&",
	"%", "\\%",
	"$", "\\$",
	"#", "\\#",
	"_", "\\_",
	"{", "\\{",
	"}", "\\}",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
)

func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
