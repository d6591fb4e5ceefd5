package eval

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// Session is the facade the rest of weave calls to evaluate snippets. It
// serializes all evaluation onto one interpreter host, converts raw
// execution results into Results, and routes failures to registered
// observers instead of letting them propagate.
type Session struct {
	host Host

	// mu serializes the whole evaluate-and-lookup sequence. The host's
	// working directory and bindings are global to the session, so two
	// interleaved evaluations would corrupt each other.
	mu sync.Mutex

	// fmtMu guards the transformation list and serializes transformation
	// callbacks. It is distinct from mu so formatting never blocks a
	// concurrently running evaluation.
	fmtMu      sync.Mutex
	transforms []Transformation

	obsMu     sync.Mutex
	observers map[int]func(Failure)
	nextObsID int
}

// ErrNoTransformation reports that every registered transformation refused a
// value. The default transformation never refuses, so this indicates an
// internal-consistency violation.
var ErrNoTransformation = errors.New("eval: no transformation accepted the value")

// NewSession creates a session, runs the startup snippets, and registers the
// default generic value transformation.
func NewSession(opts Options) (*Session, error) {
	var host Host
	switch opts.Engine {
	case EngineTengo:
		host = NewTengoHost()
	case EngineGoja, "":
		h, err := NewGojaHost(opts.PrintEnv)
		if err != nil {
			return nil, err
		}
		host = h
	default:
		return nil, fmt.Errorf("eval: unknown engine %q", opts.Engine)
	}

	s := &Session{
		host:       host,
		transforms: []Transformation{defaultTransformation},
		observers:  make(map[int]func(Failure)),
	}

	for _, snippet := range opts.Startup {
		if _, err := host.RunStatements(snippet); err != nil {
			return nil, fmt.Errorf("startup snippet failed: %w", err)
		}
	}

	return s, nil
}

// Evaluate runs one snippet against the shared host. asExpression selects
// expression mode (the value slot) over statement mode (output plus the
// implicit "it" binding). file, when set, determines the working directory
// for the run and attributes failures.
//
// A failed snippet never tears down the session: the failure is published to
// observers and an all-absent Result is returned.
func (s *Session) Evaluate(text string, asExpression bool, file string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := ""
	if file != "" {
		dir = filepath.Dir(file)
	}

	var res Result
	err := s.host.WithWorkingDirectory(dir, func() error {
		if asExpression {
			output, val, err := s.host.EvalExpression(text)
			if err != nil {
				return err
			}
			res.Output = &output
			res.Value = val
			return nil
		}

		output, err := s.host.RunStatements(text)
		if err != nil {
			return err
		}
		res.Output = &output
		// Best effort: many valid statement snippets leave no last result,
		// and a failing lookup must stay silent.
		res.ItValue = s.host.TryEvalExpression("it")
		return nil
	})
	if err != nil {
		f := Failure{Text: text, AsExpression: asExpression, File: file, Err: err}
		var evalErr *EvalError
		if errors.As(err, &evalErr) {
			f.Stderr = evalErr.Stderr
		}
		s.publish(f)
		return Result{}
	}

	return res
}

// OnFailure registers an observer called synchronously, on the goroutine
// that detected the failure, once per failed evaluation. The returned
// function unsubscribes it.
func (s *Session) OnFailure(fn func(Failure)) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// RegisterTransformation prepends fn to the transformation list, so it takes
// precedence over earlier registrations including the built-in default.
func (s *Session) RegisterTransformation(fn Transformation) {
	s.fmtMu.Lock()
	defer s.fmtMu.Unlock()
	s.transforms = append([]Transformation{fn}, s.transforms...)
}

func (s *Session) publish(f Failure) {
	s.obsMu.Lock()
	fns := make([]func(Failure), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(f)
	}
}
