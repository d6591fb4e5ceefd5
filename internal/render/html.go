package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"os"

	"github.com/yuin/goldmark"

	"github.com/dsyme/weave/internal/doc"
	"github.com/dsyme/weave/internal/eval"
)

//go:embed templates/default.html.tmpl
var defaultHTMLTemplate string

// HTML renders documents as standalone HTML pages. Prose is converted with
// goldmark; code and output become pre/code blocks; markup blocks from
// custom transformations are spliced in unescaped.
type HTML struct {
	tmpl *template.Template
}

// htmlPage is the data handed to the page template.
type htmlPage struct {
	Title string
	Body  template.HTML
}

// NewHTML creates an HTML renderer. templatePath selects a custom page
// template with {{.Title}} and {{.Body}} slots; empty uses the built-in one.
func NewHTML(templatePath string) (*HTML, error) {
	text := defaultHTMLTemplate
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
	return &HTML{tmpl: tmpl}, nil
}

func (h *HTML) Extension() string { return ".html" }

func (h *HTML) RenderDocument(d *doc.Document, resolve BlockResolver) ([]byte, error) {
	var body bytes.Buffer

	for _, seg := range d.Segments {
		if seg.Snippet == nil {
			if err := goldmark.Convert([]byte(seg.Prose), &body); err != nil {
				return nil, fmt.Errorf("markdown conversion failed: %w", err)
			}
			continue
		}

		sn := seg.Snippet
		if !sn.Hidden {
			writeCodeHTML(&body, sn.Language, sn.Source)
		}

		blocks, err := resolve(sn)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			writeBlockHTML(&body, b)
		}
	}

	title := d.Title
	if title == "" {
		title = d.Path
	}

	var out bytes.Buffer
	if err := h.tmpl.Execute(&out, htmlPage{Title: title, Body: template.HTML(body.String())}); err != nil {
		return nil, fmt.Errorf("template execution failed: %w", err)
	}
	return out.Bytes(), nil
}

func writeCodeHTML(buf *bytes.Buffer, language, source string) {
	buf.WriteString(`<pre><code`)
	if language != "" {
		fmt.Fprintf(buf, ` class="language-%s"`, html.EscapeString(language))
	}
	buf.WriteString(">")
	buf.WriteString(html.EscapeString(source))
	buf.WriteString("</code></pre>\n")
}

func writeBlockHTML(buf *bytes.Buffer, b eval.Block) {
	switch b.Kind {
	case eval.BlockCode:
		writeCodeHTML(buf, b.Language, b.Content)
	case eval.BlockMarkup:
		buf.WriteString(b.Content)
		buf.WriteString("\n")
	default:
		buf.WriteString(`<pre class="output">`)
		buf.WriteString(html.EscapeString(b.Content))
		buf.WriteString("</pre>\n")
	}
}
