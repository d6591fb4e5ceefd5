// Package render turns parsed literate documents and their evaluation
// blocks into HTML or LaTeX output.
package render

import (
	"github.com/dsyme/weave/internal/doc"
	"github.com/dsyme/weave/internal/eval"
)

// BlockResolver produces the embedded blocks for a snippet. It is invoked in
// document order, which is what keeps session state consistent with the
// reading order of the document. Returning no blocks embeds nothing.
type BlockResolver func(sn *doc.Snippet) ([]eval.Block, error)

// Renderer writes one document in a concrete output format.
type Renderer interface {
	// Extension is the output file extension including the dot.
	Extension() string

	// RenderDocument renders d, calling resolve for each snippet that wants
	// evaluation results embedded.
	RenderDocument(d *doc.Document, resolve BlockResolver) ([]byte, error)
}

// NoEval is a BlockResolver that embeds nothing, used when evaluation is
// disabled.
func NoEval(*doc.Snippet) ([]eval.Block, error) {
	return nil, nil
}
