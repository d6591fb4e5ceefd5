package eval

import (
	"fmt"
	"os"
	"strings"

	"github.com/dop251/goja"
)

// GojaHost executes snippets as JavaScript in a single persistent goja
// runtime. Variables and functions defined by one snippet remain visible to
// later snippets.
type GojaHost struct {
	vm     *goja.Runtime
	stdout strings.Builder
	stderr strings.Builder
}

// NewGojaHost creates a runtime with print/console capture wired up and the
// printing-environment object installed as the global "session".
func NewGojaHost(env *PrintEnv) (*GojaHost, error) {
	h := &GojaHost{vm: goja.New()}
	if env == nil {
		env = NewPrintEnv()
	}
	if err := h.setupRuntime(env); err != nil {
		return nil, fmt.Errorf("failed to set up goja runtime: %w", err)
	}
	return h, nil
}

// RunStatements executes code as a statement sequence. On success, a defined
// completion value is bound to the global "it", mirroring the usual REPL
// last-result convention.
func (h *GojaHost) RunStatements(text string) (string, error) {
	h.stdout.Reset()
	h.stderr.Reset()

	val, err := h.vm.RunString(text)
	if err != nil {
		return "", &EvalError{Text: text, Stderr: h.stderr.String(), Err: err}
	}

	if val != nil && !goja.IsUndefined(val) && !goja.IsNull(val) {
		if err := h.vm.Set("it", val); err != nil {
			return "", &EvalError{Text: text, Stderr: h.stderr.String(), Err: err}
		}
	}

	return h.stdout.String(), nil
}

// EvalExpression executes code as a single expression and returns its value
// with the runtime type. The source is parenthesized so constructs like
// object literals parse as expressions rather than blocks.
func (h *GojaHost) EvalExpression(text string) (string, *Value, error) {
	h.stdout.Reset()
	h.stderr.Reset()

	val, err := h.vm.RunString("(" + text + "\n)")
	if err != nil {
		return "", nil, &EvalError{Text: text, Stderr: h.stderr.String(), Err: err}
	}

	return h.stdout.String(), exportValue(val), nil
}

// TryEvalExpression looks up a global binding by name. Missing or undefined
// bindings yield nil; a panicking lookup is swallowed as well.
func (h *GojaHost) TryEvalExpression(name string) (v *Value) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()

	val := h.vm.Get(name)
	if val == nil || goja.IsUndefined(val) {
		return nil
	}
	return exportValue(val)
}

// WithWorkingDirectory runs fn with the process working directory set to
// dir, so relative paths in the snippet resolve against its origin file.
func (h *GojaHost) WithWorkingDirectory(dir string, fn func() error) error {
	return withWorkingDirectory(dir, fn)
}

// setupRuntime installs print, console and the printing-environment shim.
func (h *GojaHost) setupRuntime(env *PrintEnv) error {
	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		h.stdout.WriteString(strings.Join(args, " "))
		h.stdout.WriteString("\n")
		return goja.Undefined()
	}
	if err := h.vm.Set("print", printFunc); err != nil {
		return err
	}

	errorFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		h.stderr.WriteString(strings.Join(args, " "))
		h.stderr.WriteString("\n")
		return goja.Undefined()
	}

	console := h.vm.NewObject()
	if err := console.Set("log", printFunc); err != nil {
		return err
	}
	if err := console.Set("error", errorFunc); err != nil {
		return err
	}
	if err := h.vm.Set("console", console); err != nil {
		return err
	}

	if err := h.installFSModule(NewFSModule()); err != nil {
		return err
	}

	return h.installPrintEnv(env)
}

// installFSModule exposes file access to snippets. Paths resolve against the
// working directory in effect during the run, i.e. the document's directory.
func (h *GojaHost) installFSModule(mod *FSModule) error {
	fs := h.vm.NewObject()

	read := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(h.vm.NewTypeError("read requires a path argument"))
		}
		content, err := mod.Read(call.Arguments[0].String())
		if err != nil {
			panic(h.vm.NewGoError(err))
		}
		return h.vm.ToValue(content)
	}
	if err := fs.Set("read", read); err != nil {
		return err
	}

	exists := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(h.vm.NewTypeError("exists requires a path argument"))
		}
		return h.vm.ToValue(mod.Exists(call.Arguments[0].String()))
	}
	if err := fs.Set("exists", exists); err != nil {
		return err
	}

	list := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(h.vm.NewTypeError("list requires a path argument"))
		}
		names, err := mod.List(call.Arguments[0].String())
		if err != nil {
			panic(h.vm.NewGoError(err))
		}
		return h.vm.ToValue(names)
	}
	if err := fs.Set("list", list); err != nil {
		return err
	}

	return h.vm.Set("fs", fs)
}

// installPrintEnv exposes the shim as a plain object so snippets can read
// and assign its properties and call its no-op operations without failing.
func (h *GojaHost) installPrintEnv(env *PrintEnv) error {
	noop := func(call goja.FunctionCall) goja.Value {
		return goja.Undefined()
	}

	obj := h.vm.NewObject()
	if err := obj.Set("printWidth", env.PrintWidth); err != nil {
		return err
	}
	if err := obj.Set("printDepth", env.PrintDepth); err != nil {
		return err
	}
	if err := obj.Set("printLength", env.PrintLength); err != nil {
		return err
	}
	if err := obj.Set("showDeclarationValues", env.ShowDeclarationValues); err != nil {
		return err
	}
	if err := obj.Set("commandLineArgs", h.vm.ToValue(env.Args)); err != nil {
		return err
	}
	if err := obj.Set("addPrinter", noop); err != nil {
		return err
	}
	if err := obj.Set("addPrintTransformer", noop); err != nil {
		return err
	}

	loop := h.vm.NewObject()
	if err := loop.Set("run", noop); err != nil {
		return err
	}
	if err := loop.Set("scheduleRestart", noop); err != nil {
		return err
	}
	if err := obj.Set("eventLoop", loop); err != nil {
		return err
	}

	return h.vm.Set("session", obj)
}

// exportValue converts a goja value into a typed Value.
func exportValue(val goja.Value) *Value {
	if val == nil || goja.IsUndefined(val) {
		return nil
	}
	return &Value{Data: val.Export(), Type: val.ExportType()}
}

// withWorkingDirectory is the shared chdir-scoped helper for hosts. The
// change is process-wide, which is safe only because the owning Session
// serializes evaluations.
func withWorkingDirectory(dir string, fn func() error) error {
	if dir == "" || dir == "." {
		return fn()
	}

	prev, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	defer os.Chdir(prev)

	return fn()
}
