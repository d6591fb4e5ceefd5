package render

import (
	"os"
	"strings"
	"testing"

	"github.com/dsyme/weave/internal/doc"
	"github.com/dsyme/weave/internal/eval"
)

func testDocument() *doc.Document {
	return &doc.Document{
		Title: "Demo",
		Path:  "demo.md",
		Segments: []doc.Segment{
			{Prose: "Some **bold** prose."},
			{Snippet: &doc.Snippet{
				Source:   `print("hi")`,
				Language: "js",
				Mode:     doc.ModeOutput,
			}},
		},
	}
}

func outputResolver(content string) BlockResolver {
	return func(*doc.Snippet) ([]eval.Block, error) {
		return []eval.Block{{Kind: eval.BlockOutput, Content: content}}, nil
	}
}

func TestHTML_RenderDocument(t *testing.T) {
	r, err := NewHTML("")
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	out, err := r.RenderDocument(testDocument(), outputResolver("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page := string(out)

	if !strings.Contains(page, "<title>Demo</title>") {
		t.Error("expected the document title in the page")
	}
	if !strings.Contains(page, "<strong>bold</strong>") {
		t.Error("expected prose converted from markdown")
	}
	if !strings.Contains(page, `class="language-js"`) {
		t.Error("expected a language-tagged code block")
	}
	if !strings.Contains(page, `print(&#34;hi&#34;)`) {
		t.Error("expected the snippet source escaped into the page")
	}
	if !strings.Contains(page, `<pre class="output">hi</pre>`) {
		t.Error("expected the output block")
	}
}

func TestHTML_HiddenSnippetSuppressed(t *testing.T) {
	r, err := NewHTML("")
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	d := &doc.Document{
		Path: "x.md",
		Segments: []doc.Segment{
			{Snippet: &doc.Snippet{Source: "secret()", Mode: doc.ModeSilent, Hidden: true}},
		},
	}

	out, err := r.RenderDocument(d, NoEval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "secret()") {
		t.Error("expected the hidden snippet source to be suppressed")
	}
}

func TestHTML_MarkupBlockUnescaped(t *testing.T) {
	r, err := NewHTML("")
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	resolve := func(*doc.Snippet) ([]eval.Block, error) {
		return []eval.Block{{Kind: eval.BlockMarkup, Content: "<table><tr><td>1</td></tr></table>"}}, nil
	}

	out, err := r.RenderDocument(testDocument(), resolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "<table><tr><td>1</td></tr></table>") {
		t.Error("expected markup blocks spliced in unescaped")
	}
}

func TestHTML_CustomTemplate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/page.tmpl"
	if err := os.WriteFile(path, []byte("<main data-title=\"{{.Title}}\">{{.Body}}</main>"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewHTML(path)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	out, err := r.RenderDocument(testDocument(), outputResolver("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `<main data-title="Demo">`) {
		t.Error("expected the custom template to be used")
	}
}

func TestLaTeX_RenderDocument(t *testing.T) {
	r, err := NewLaTeX("")
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	out, err := r.RenderDocument(testDocument(), outputResolver("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tex := string(out)

	if !strings.Contains(tex, "\\begin{lstlisting}\nprint(\"hi\")\n\\end{lstlisting}") {
		t.Error("expected the snippet in a lstlisting environment")
	}
	if !strings.Contains(tex, "\\begin{verbatim}\nhi\n\\end{verbatim}") {
		t.Error("expected the output in a verbatim environment")
	}
	if !strings.Contains(tex, "\\documentclass") {
		t.Error("expected the default preamble")
	}
}

func TestEscapeLaTeX(t *testing.T) {
	got := escapeLaTeX("50% of $10 & more")
	if got != "50\\% of \\$10 \\& more" {
		t.Errorf("unexpected escaping: %q", got)
	}
}

func TestExtensions(t *testing.T) {
	h, _ := NewHTML("")
	l, _ := NewLaTeX("")
	if h.Extension() != ".html" || l.Extension() != ".tex" {
		t.Error("unexpected renderer extensions")
	}
}
