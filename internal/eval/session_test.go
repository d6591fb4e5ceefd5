package eval

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(Options{})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

func TestSession_StatementMode(t *testing.T) {
	s := newTestSession(t)

	res := s.Evaluate("var x = 1\nx + 1", false, "")

	if res.Output == nil {
		t.Fatal("expected output to be present")
	}
	if res.Value != nil {
		t.Error("expected no expression value in statement mode")
	}
	if res.ItValue == nil {
		t.Fatal("expected the it binding after a trailing expression statement")
	}
	if got := res.ItValue.Data; got != int64(2) {
		t.Errorf("expected it = 2, got %v (%T)", got, got)
	}
}

func TestSession_StatementModeWithoutLastResult(t *testing.T) {
	s := newTestSession(t)

	res := s.Evaluate("var y = 5", false, "")

	if res.Output == nil {
		t.Fatal("expected output to be present")
	}
	if res.ItValue != nil {
		t.Errorf("expected no it binding, got %v", res.ItValue.Data)
	}
}

func TestSession_ExpressionMode(t *testing.T) {
	s := newTestSession(t)

	res := s.Evaluate("6 * 7", true, "")

	if res.ItValue != nil {
		t.Error("expected no it binding in expression mode")
	}
	if res.Value == nil {
		t.Fatal("expected an expression value")
	}
	if got := res.Value.Data; got != int64(42) {
		t.Errorf("expected 42, got %v (%T)", got, got)
	}
	if res.Value.Type == nil {
		t.Error("expected the value's runtime type to be present")
	}
}

func TestSession_ExpressionModeCapturesOutput(t *testing.T) {
	s := newTestSession(t)

	res := s.Evaluate(`(print("hi"), 3)`, true, "")

	if res.Output == nil || !strings.Contains(*res.Output, "hi") {
		t.Errorf("expected printed output alongside the value, got %v", res.Output)
	}
	if res.Value == nil || res.Value.Data != int64(3) {
		t.Errorf("expected value 3, got %v", res.Value)
	}
}

func TestSession_BindingsPersistAcrossCalls(t *testing.T) {
	s := newTestSession(t)

	if res := s.Evaluate("x = 1", false, ""); res.Output == nil {
		t.Fatal("first snippet failed")
	}

	res := s.Evaluate("print(x + 1)", false, "")
	if res.Output == nil {
		t.Fatal("second snippet failed")
	}
	if !strings.Contains(*res.Output, "2") {
		t.Errorf("expected x still bound to 1, got output %q", *res.Output)
	}
}

func TestSession_FailurePublishesExactlyOnce(t *testing.T) {
	s := newTestSession(t)

	var failures []Failure
	s.OnFailure(func(f Failure) {
		failures = append(failures, f)
	})

	res := s.Evaluate("nosuchfunction()", false, "docs/intro.md")

	if res.Output != nil || res.ItValue != nil || res.Value != nil {
		t.Error("expected an all-absent result for a failed evaluation")
	}
	if len(failures) != 1 {
		t.Fatalf("expected exactly one failure, got %d", len(failures))
	}
	f := failures[0]
	if f.Text != "nosuchfunction()" {
		t.Errorf("expected original text in failure, got %q", f.Text)
	}
	if f.AsExpression {
		t.Error("expected asExpression to match the call's mode")
	}
	if f.File != "docs/intro.md" {
		t.Errorf("expected origin file in failure, got %q", f.File)
	}
	if f.Err == nil {
		t.Error("expected the underlying error to be captured")
	}
}

func TestSession_FailureCapturesStderr(t *testing.T) {
	s := newTestSession(t)

	var failure Failure
	s.OnFailure(func(f Failure) { failure = f })

	s.Evaluate(`console.error("bad state"); throw new Error("boom")`, false, "")

	if !strings.Contains(failure.Stderr, "bad state") {
		t.Errorf("expected captured stderr, got %q", failure.Stderr)
	}
}

func TestSession_SessionSurvivesFailure(t *testing.T) {
	s := newTestSession(t)

	s.Evaluate("definitely not javascript {{{", false, "")

	res := s.Evaluate("1 + 1", true, "")
	if res.Value == nil || res.Value.Data != int64(2) {
		t.Error("expected the session to remain usable after a failure")
	}
}

func TestSession_Unsubscribe(t *testing.T) {
	s := newTestSession(t)

	calls := 0
	unsubscribe := s.OnFailure(func(Failure) { calls++ })

	s.Evaluate("bad(", false, "")
	unsubscribe()
	s.Evaluate("bad(", false, "")

	if calls != 1 {
		t.Errorf("expected one call before unsubscribe, got %d", calls)
	}
}

func TestSession_StartupSnippets(t *testing.T) {
	s, err := NewSession(Options{
		Startup: []string{"function twice(n) { return n * 2 }"},
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	res := s.Evaluate("twice(21)", true, "")
	if res.Value == nil || res.Value.Data != int64(42) {
		t.Errorf("expected startup definitions to be visible, got %v", res.Value)
	}
}

func TestSession_StartupFailure(t *testing.T) {
	_, err := NewSession(Options{Startup: []string{"not valid {{{"}})
	if err == nil {
		t.Error("expected an error for a failing startup snippet")
	}
}

func TestSession_UnknownEngine(t *testing.T) {
	_, err := NewSession(Options{Engine: "forth"})
	if err == nil {
		t.Error("expected an error for an unknown engine")
	}
}

func TestSession_WorkingDirectoryFollowsOriginFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.txt"), []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t)
	res := s.Evaluate(`fs.read("data.txt")`, true, filepath.Join(dir, "doc.md"))

	if res.Value == nil {
		t.Fatal("expected a value from fs.read")
	}
	if got, ok := res.Value.Data.(string); !ok || got != "payload" {
		t.Errorf("expected file contents relative to the document, got %v", res.Value.Data)
	}
}

func TestSession_WorkingDirectoryRestoredAfterFailure(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t)
	s.Evaluate("broken(", false, filepath.Join(t.TempDir(), "doc.md"))

	after, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("expected working directory restored, got %q", after)
	}
}

func TestSession_ConcurrentEvaluationsAreSerialized(t *testing.T) {
	s := newTestSession(t)

	const workers = 16
	results := make([]Result, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = s.Evaluate(`print("tick")`, false, "")
		}(i)
	}
	wg.Wait()

	// Each run resets the host's capture buffer, so interleaved execution
	// would produce mixed or duplicated output.
	for i, res := range results {
		if res.Output == nil {
			t.Fatalf("evaluation %d failed", i)
		}
		if *res.Output != "tick\n" {
			t.Errorf("evaluation %d: expected exactly %q, got %q", i, "tick\n", *res.Output)
		}
	}
}
