package eval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/d5/tengo/v2"
)

// tengoResultVar holds the expression value inside a generated wrapper
// script. The name is reserved and stripped from persisted variables.
const tengoResultVar = "__weave_result__"

// TengoHost executes snippets as Tengo scripts. Tengo has no persistent
// runtime, so global variables are extracted after each run and re-injected
// into the next script, which gives the same binding-accumulation behavior.
type TengoHost struct {
	variables map[string]any
	output    strings.Builder
}

// NewTengoHost creates an empty Tengo session.
func NewTengoHost() *TengoHost {
	return &TengoHost{variables: make(map[string]any)}
}

// RunStatements compiles and runs code as a Tengo script, persisting its
// global variables for later snippets.
func (h *TengoHost) RunStatements(text string) (string, error) {
	compiled, err := h.run(text)
	if err != nil {
		return "", &EvalError{Text: text, Err: err}
	}
	h.extractVariables(compiled)
	return h.output.String(), nil
}

// EvalExpression evaluates code as a single expression by assigning it to a
// reserved result variable and reading that back after the run.
func (h *TengoHost) EvalExpression(text string) (string, *Value, error) {
	wrapped := tengoResultVar + " := (" + text + ")"
	compiled, err := h.run(wrapped)
	if err != nil {
		return "", nil, &EvalError{Text: text, Err: err}
	}
	h.extractVariables(compiled)

	v := compiled.Get(tengoResultVar)
	if v == nil || v.IsUndefined() {
		return h.output.String(), nil, nil
	}
	data := fromTengoObject(v.Object())
	return h.output.String(), &Value{Data: data, Type: reflect.TypeOf(data)}, nil
}

// TryEvalExpression looks up a persisted variable by name. Tengo has no
// implicit last-result binding, so "it" is present only when a snippet
// assigned it explicitly.
func (h *TengoHost) TryEvalExpression(name string) *Value {
	data, ok := h.variables[name]
	if !ok || data == nil {
		return nil
	}
	return &Value{Data: data, Type: reflect.TypeOf(data)}
}

// WithWorkingDirectory runs fn with the process working directory set to dir.
func (h *TengoHost) WithWorkingDirectory(dir string, fn func() error) error {
	return withWorkingDirectory(dir, fn)
}

// run builds a script with the persisted variables and print builtins, then
// compiles and executes it.
func (h *TengoHost) run(text string) (*tengo.Compiled, error) {
	h.output.Reset()

	script := tengo.NewScript([]byte(text))

	for name, value := range h.variables {
		if err := script.Add(name, toTengoValue(value)); err != nil {
			// Values Tengo cannot represent are simply not re-injected.
			continue
		}
	}

	h.addBuiltins(script)

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	if err := compiled.Run(); err != nil {
		return nil, err
	}
	return compiled, nil
}

// addBuiltins installs print and println writing to the capture buffer.
func (h *TengoHost) addBuiltins(script *tengo.Script) {
	write := func(newline bool) tengo.CallableFunc {
		return func(args ...tengo.Object) (tengo.Object, error) {
			for i, arg := range args {
				if i > 0 {
					h.output.WriteString(" ")
				}
				h.output.WriteString(tengoObjectString(arg))
			}
			if newline {
				h.output.WriteString("\n")
			}
			return tengo.UndefinedValue, nil
		}
	}

	_ = script.Add("println", &tengo.UserFunction{Name: "println", Value: write(true)})
	_ = script.Add("print", &tengo.UserFunction{Name: "print", Value: write(false)})
}

// extractVariables persists all globals from the compiled script.
func (h *TengoHost) extractVariables(compiled *tengo.Compiled) {
	for _, v := range compiled.GetAll() {
		name := v.Name()
		if name == "" || name == tengoResultVar {
			continue
		}
		h.variables[name] = fromTengoObject(v.Object())
	}
}

// toTengoValue converts a Go value to a Tengo-compatible value.
func toTengoValue(v any) any {
	switch val := v.(type) {
	case string, int, float64, bool, []any, map[string]any:
		return val
	case int64:
		return int(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// fromTengoObject converts a Tengo object to a plain Go value.
func fromTengoObject(obj tengo.Object) any {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		arr := make([]any, len(v.Value))
		for i, item := range v.Value {
			arr[i] = fromTengoObject(item)
		}
		return arr
	case *tengo.Map:
		m := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			m[k] = fromTengoObject(item)
		}
		return m
	case *tengo.Undefined:
		return nil
	default:
		return obj.String()
	}
}

// tengoObjectString renders a Tengo object for console output.
func tengoObjectString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return fmt.Sprintf("%d", v.Value)
	case *tengo.Float:
		return fmt.Sprintf("%g", v.Value)
	case *tengo.Bool:
		if v.IsFalsy() {
			return "false"
		}
		return "true"
	case *tengo.Undefined:
		return "undefined"
	default:
		return obj.String()
	}
}
