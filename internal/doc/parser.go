package doc

import (
	"regexp"
	"strings"
)

var (
	fencePattern = regexp.MustCompile("^```(.*)$")
	titlePattern = regexp.MustCompile(`^#\s+(.+)$`)
)

// Parse splits a Markdown document into prose segments and snippets. path is
// recorded on each snippet for working-directory resolution and failure
// attribution; it does not need to exist on disk.
func Parse(content, path string) *Document {
	d := &Document{Path: path}

	lines := strings.Split(content, "\n")

	var prose []string
	var code []string
	var current *Snippet

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		text := strings.Join(prose, "\n")
		prose = nil
		if strings.TrimSpace(text) == "" {
			return
		}
		d.Segments = append(d.Segments, Segment{Prose: text})
	}

	for lineNum, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
			if current == nil {
				flushProse()
				current = parseInfoString(m[1])
				current.File = path
				current.Line = lineNum + 1
				code = nil
			} else {
				current.Source = strings.Join(code, "\n")
				d.Segments = append(d.Segments, Segment{Snippet: current})
				current = nil
			}
			continue
		}

		if current != nil {
			code = append(code, line)
			continue
		}

		if d.Title == "" {
			if m := titlePattern.FindStringSubmatch(trimmed); m != nil {
				d.Title = strings.TrimSpace(m[1])
			}
		}
		prose = append(prose, line)
	}

	// An unterminated fence is treated as a snippet running to the end.
	if current != nil {
		current.Source = strings.Join(code, "\n")
		d.Segments = append(d.Segments, Segment{Snippet: current})
	}
	flushProse()

	return d
}

// parseInfoString interprets the fence info string. The first field is the
// language; the remaining fields are directives:
//
//	eval          run as statements, embed the console output
//	eval=value    run as an expression, embed its value
//	eval=it       run as statements, embed the last-result binding
//	hide          suppress the source block in the output
func parseInfoString(info string) *Snippet {
	sn := &Snippet{Mode: ModeDisplay}

	fields := strings.Fields(info)
	if len(fields) == 0 {
		return sn
	}
	sn.Language = fields[0]

	for _, field := range fields[1:] {
		switch field {
		case "eval", "eval=output":
			sn.Mode = ModeOutput
		case "eval=value":
			sn.Mode = ModeValue
		case "eval=it":
			sn.Mode = ModeIt
		case "hide":
			sn.Hidden = true
		}
	}

	// A hidden snippet with no eval directive is still executed, otherwise
	// hiding it would serve no purpose.
	if sn.Hidden && sn.Mode == ModeDisplay {
		sn.Mode = ModeSilent
	}

	return sn
}
