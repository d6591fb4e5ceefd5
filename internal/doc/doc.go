// Package doc parses literate Markdown documents into prose segments and
// embedded code snippets. Fence info-string directives decide whether a
// snippet is displayed as-is or handed to the evaluation session.
package doc

// SnippetMode describes what the renderer embeds after a snippet.
type SnippetMode int

const (
	// ModeDisplay shows the snippet without evaluating it.
	ModeDisplay SnippetMode = iota

	// ModeOutput evaluates the snippet as statements and embeds the
	// captured console output.
	ModeOutput

	// ModeValue evaluates the snippet as a single expression and embeds its
	// value.
	ModeValue

	// ModeIt evaluates the snippet as statements and embeds the implicit
	// last-result binding.
	ModeIt

	// ModeSilent evaluates the snippet as statements and embeds nothing.
	// Used for hidden setup snippets.
	ModeSilent
)

// Snippet is one fenced code block extracted from a document.
type Snippet struct {
	// Source is the code between the fences.
	Source string

	// Language is the first info-string field (e.g. "js").
	Language string

	// Mode selects display-only versus the evaluation variants.
	Mode SnippetMode

	// Hidden suppresses the source block in the output. The snippet is
	// still evaluated when its mode calls for it.
	Hidden bool

	// File is the originating document path, used for working-directory
	// resolution and failure attribution.
	File string

	// Line is the 1-indexed line of the opening fence.
	Line int
}

// Segment is either a run of prose or a snippet, never both.
type Segment struct {
	Prose   string
	Snippet *Snippet
}

// Document is a parsed literate document in source order.
type Document struct {
	Title    string
	Path     string
	Segments []Segment
}
