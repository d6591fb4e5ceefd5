// Package eval implements the embedded-code evaluation subsystem for weave.
// A Session owns a long-lived interpreter into which document snippets are
// fed incrementally, preserving bindings across calls like a REPL. Captured
// console output and typed result values are converted into presentational
// blocks for the renderer.
package eval

import (
	"fmt"
	"reflect"
)

// Engine selects the interpreter backend used by a Session.
type Engine string

const (
	// EngineGoja evaluates snippets as JavaScript in a persistent goja runtime.
	EngineGoja Engine = "goja"

	// EngineTengo evaluates snippets as Tengo scripts with variables carried
	// between runs.
	EngineTengo Engine = "tengo"
)

// Options holds construction-time configuration for a Session.
type Options struct {
	// Engine is the interpreter backend (default: EngineGoja)
	Engine Engine

	// Startup is a list of statement snippets run once when the session is
	// created, before any document snippet (e.g. helper definitions).
	Startup []string

	// PrintEnv substitutes a custom printing-environment object for the
	// default shim. Snippets see it as the global "session" object.
	PrintEnv *PrintEnv
}

// Value is a result value paired with its runtime type.
type Value struct {
	Data any
	Type reflect.Type
}

// Result is the structured outcome of one evaluation.
//
// In expression mode ItValue is always nil; in statement mode Value is
// always nil. A failed evaluation leaves all three fields nil.
type Result struct {
	// Output is the captured console text produced during execution.
	Output *string

	// ItValue is the implicit last-result binding ("it") after a statement
	// run, when one exists.
	ItValue *Value

	// Value is the explicit return value of an expression run.
	Value *Value
}

// EmbedKind selects what the formatter extracts from a Result.
type EmbedKind int

const (
	// EmbedOutput renders the captured console output.
	EmbedOutput EmbedKind = iota

	// EmbedItValue renders the implicit last-result binding.
	EmbedItValue

	// EmbedValue renders the expression's return value.
	EmbedValue
)

func (k EmbedKind) String() string {
	switch k {
	case EmbedOutput:
		return "output"
	case EmbedItValue:
		return "it-value"
	case EmbedValue:
		return "value"
	}
	return fmt.Sprintf("EmbedKind(%d)", int(k))
}

// Failure describes one failed evaluation. It is handed to failure observers
// and not retained by the session afterwards.
type Failure struct {
	// Text is the original snippet source.
	Text string

	// AsExpression is the evaluation mode of the failed call.
	AsExpression bool

	// File is the originating document path, if known.
	File string

	// Err is the underlying evaluation error.
	Err error

	// Stderr is the merged error-stream text captured during the run.
	Stderr string
}

// BlockKind classifies a presentational block.
type BlockKind int

const (
	// BlockCode is a source-code block with an optional language tag.
	BlockCode BlockKind = iota

	// BlockOutput is preformatted console or value text.
	BlockOutput

	// BlockMarkup is raw markup produced by a custom transformation, spliced
	// into the document unescaped.
	BlockMarkup
)

// Block is one presentational unit handed to the renderer.
type Block struct {
	Kind     BlockKind
	Language string
	Content  string
}

// Transformation converts a value into presentational blocks. Returning
// ok=false passes the value to the next registered transformation.
type Transformation func(v Value) (blocks []Block, ok bool)

// EvalError is the host-level evaluation failure. It carries the snippet
// text, the merged error-stream capture and the underlying diagnostic.
type EvalError struct {
	Text   string
	Stderr string
	Err    error
}

func (e *EvalError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("eval failed: %v [stderr=%q]", e.Err, e.Stderr)
	}
	return fmt.Sprintf("eval failed: %v", e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Host is a single reusable interactive execution environment. Bindings
// accumulate across calls; exactly one logical execution may be in flight at
// a time, which the owning Session enforces.
type Host interface {
	// RunStatements executes code as a sequence of top-level statements and
	// returns the captured console text. Bindings persist in the session.
	RunStatements(text string) (string, error)

	// EvalExpression executes code as a single expression and returns the
	// captured console text and the produced value with its runtime type.
	// On failure it returns an *EvalError.
	EvalExpression(text string) (string, *Value, error)

	// TryEvalExpression is a best-effort lookup of a named binding. Any
	// failure is swallowed and yields nil; it never surfaces as an
	// evaluation failure.
	TryEvalExpression(name string) *Value

	// WithWorkingDirectory runs fn with the session's current directory set
	// to dir, restoring the prior directory afterwards even if fn fails.
	WithWorkingDirectory(dir string, fn func() error) error
}
