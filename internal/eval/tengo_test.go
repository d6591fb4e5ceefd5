package eval

import (
	"strings"
	"testing"
)

func TestTengoHost_BindingsPersist(t *testing.T) {
	h := NewTengoHost()

	if _, err := h.RunStatements("x := 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, val, err := h.EvalExpression("x + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val == nil || val.Data != 2 {
		t.Errorf("expected x still bound to 1, got %v", val)
	}
}

func TestTengoHost_PrintCapture(t *testing.T) {
	h := NewTengoHost()

	output, err := h.RunStatements(`println("hello", 42)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "hello 42\n" {
		t.Errorf("expected captured println output, got %q", output)
	}
}

func TestTengoHost_ItBinding(t *testing.T) {
	h := NewTengoHost()

	if _, err := h.RunStatements("it := [1, 2, 3]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val := h.TryEvalExpression("it")
	if val == nil {
		t.Fatal("expected the it binding to be present")
	}
	arr, ok := val.Data.([]any)
	if !ok || len(arr) != 3 {
		t.Errorf("expected a three element array, got %v", val.Data)
	}
}

func TestTengoHost_MissingBindingIsNil(t *testing.T) {
	h := NewTengoHost()
	if val := h.TryEvalExpression("missing"); val != nil {
		t.Errorf("expected nil for a missing binding, got %v", val)
	}
}

func TestTengoHost_CompileErrorWrapped(t *testing.T) {
	h := NewTengoHost()

	_, err := h.RunStatements(":= := :=")
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Errorf("expected *EvalError, got %T", err)
	}
}

func TestTengoSession_EndToEnd(t *testing.T) {
	s, err := NewSession(Options{Engine: EngineTengo})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if res := s.Evaluate(`total := 0
for i := 1; i <= 3; i++ {
	total += i
}
println(total)`, false, ""); res.Output == nil || !strings.Contains(*res.Output, "6") {
		t.Fatalf("expected summed output, got %v", res.Output)
	}

	res := s.Evaluate("total * 7", true, "")
	if res.Value == nil || res.Value.Data != 42 {
		t.Errorf("expected 42, got %v", res.Value)
	}

	var failures int
	s.OnFailure(func(Failure) { failures++ })
	if res := s.Evaluate("][", false, ""); res.Output != nil {
		t.Error("expected an all-absent result for the failed snippet")
	}
	if failures != 1 {
		t.Errorf("expected one published failure, got %d", failures)
	}
}
