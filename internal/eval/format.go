package eval

import (
	"fmt"
	"strings"
)

const (
	noOutputText = "no output was produced."
	noValueText  = "no value was returned."
)

// Format renders one slot of a Result into presentational blocks. Output
// requests become a single preformatted block (or a fixed placeholder when
// no output was captured); value requests are dispatched through the
// registered transformations, most recently registered first.
func (s *Session) Format(res Result, kind EmbedKind) ([]Block, error) {
	switch kind {
	case EmbedOutput:
		if res.Output == nil {
			return []Block{{Kind: BlockOutput, Content: noOutputText}}, nil
		}
		return []Block{{Kind: BlockOutput, Content: strings.TrimSpace(*res.Output)}}, nil

	case EmbedItValue, EmbedValue:
		v := res.ItValue
		if kind == EmbedValue {
			v = res.Value
		}
		if v == nil {
			return []Block{{Kind: BlockOutput, Content: noValueText}}, nil
		}
		return s.transform(*v)

	default:
		return nil, fmt.Errorf("eval: invalid embed kind %s", kind)
	}
}

// transform scans the transformation list under the formatter lock and
// returns the first non-refusing result.
func (s *Session) transform(v Value) ([]Block, error) {
	s.fmtMu.Lock()
	defer s.fmtMu.Unlock()

	for _, t := range s.transforms {
		if blocks, ok := t(v); ok {
			return blocks, nil
		}
	}

	// Unreachable while the default transformation is registered.
	return nil, fmt.Errorf("%w (type %v)", ErrNoTransformation, v.Type)
}

// defaultTransformation formats any value generically. It is registered at
// session construction and never refuses, guaranteeing termination of the
// transformation scan.
func defaultTransformation(v Value) ([]Block, bool) {
	return []Block{{Kind: BlockOutput, Content: formatValue(v.Data)}}, true
}

// formatValue renders a value for display, quoting strings and truncating
// oversized strings and arrays.
func formatValue(data any) string {
	switch v := data.(type) {
	case nil:
		return "null"
	case string:
		if len(v) > 1000 {
			return fmt.Sprintf("%q... (truncated, total %d chars)", v[:1000], len(v))
		}
		return fmt.Sprintf("%q", v)
	case []any:
		if len(v) == 0 {
			return "[]"
		}
		if len(v) > 20 {
			items := make([]string, 21)
			for i := range 20 {
				items[i] = fmt.Sprintf("%v", v[i])
			}
			items[20] = fmt.Sprintf("... (%d more items)", len(v)-20)
			return "[" + strings.Join(items, ", ") + "]"
		}
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprintf("%v", item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
