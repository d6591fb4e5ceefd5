// Package build orchestrates one documentation build: discover documents,
// evaluate their snippets against a shared session, and render the results.
package build

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsyme/weave/internal/doc"
	"github.com/dsyme/weave/internal/eval"
	"github.com/dsyme/weave/internal/logger"
	"github.com/dsyme/weave/internal/render"
)

// Config holds the build configuration.
type Config struct {
	// Input is the directory scanned for *.md documents.
	Input string

	// OutputDir receives the rendered files, mirroring the input layout.
	OutputDir string

	// Format is "html" or "latex".
	Format string

	// Template is an optional custom page template path.
	Template string

	// Engine selects the interpreter backend.
	Engine string

	// Startup snippets run once at session creation.
	Startup []string

	// Eval enables snippet evaluation.
	Eval bool

	// Output is the progress writer (default: stdout).
	Output io.Writer

	// Log receives structured failure and progress records.
	Log *logger.Logger
}

// Summary reports what one build did.
type Summary struct {
	Documents int
	Snippets  int
	Failures  int
}

// Run executes one build and returns its summary. Evaluation failures do not
// abort the build; they are logged, counted and the affected embeds render
// as placeholders.
func Run(cfg Config) (*Summary, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	renderer, err := newRenderer(cfg.Format, cfg.Template)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}

	resolve := render.NoEval
	if cfg.Eval {
		session, err := eval.NewSession(eval.Options{
			Engine:  eval.Engine(cfg.Engine),
			Startup: cfg.Startup,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start evaluation session: %w", err)
		}

		session.OnFailure(func(f eval.Failure) {
			summary.Failures++
			formatFailure(cfg.Output, f)
			cfg.Log.WithField("file", f.File).Error(f.Err, "snippet evaluation failed")
		})

		resolve = newResolver(session, summary)
	}

	paths, err := discoverDocuments(cfg.Input)
	if err != nil {
		return nil, err
	}

	formatHeader(cfg.Output, cfg, len(paths))

	for _, path := range paths {
		outPath, err := buildDocument(cfg, renderer, resolve, path)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", path, err)
		}
		summary.Documents++
		formatDocument(cfg.Output, path, outPath)
	}

	formatSummary(cfg.Output, summary)
	return summary, nil
}

// buildDocument renders one document and writes it under the output dir,
// preserving the input's directory layout.
func buildDocument(cfg Config, renderer render.Renderer, resolve render.BlockResolver, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	d := doc.Parse(string(content), path)

	out, err := renderer.RenderDocument(d, resolve)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(cfg.Input, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	outPath := filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+renderer.Extension())

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}

// newResolver maps snippet modes onto session calls. Snippets are resolved
// in document order, so bindings defined early in a document are visible to
// later snippets.
func newResolver(session *eval.Session, summary *Summary) render.BlockResolver {
	return func(sn *doc.Snippet) ([]eval.Block, error) {
		if sn.Mode == doc.ModeDisplay {
			return nil, nil
		}
		summary.Snippets++

		res := session.Evaluate(sn.Source, sn.Mode == doc.ModeValue, sn.File)

		switch sn.Mode {
		case doc.ModeOutput:
			return session.Format(res, eval.EmbedOutput)
		case doc.ModeValue:
			return session.Format(res, eval.EmbedValue)
		case doc.ModeIt:
			return session.Format(res, eval.EmbedItValue)
		default: // ModeSilent
			return nil, nil
		}
	}
}

func newRenderer(format, templatePath string) (render.Renderer, error) {
	switch format {
	case "latex":
		return render.NewLaTeX(templatePath)
	case "html", "":
		return render.NewHTML(templatePath)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// discoverDocuments returns all *.md files under root in walk order.
func discoverDocuments(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return paths, nil
}
