package meta

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

const (
	notPresent = "Not present"
	removed    = "Removed"

	columnWidth = 25
	truncateAt  = 22
)

// Row is one line of a metadata comparison. Original and Current hold the
// full comparison values; WriteComparison truncates them for display.
type Row struct {
	Tag      string
	Original string
	Current  string
	Changed  bool
}

// Compare lines up two metadata sets by display name. A key missing from
// orig shows as "Not present", one missing from curr as "Removed". Changed
// is decided on the full values, never on their truncated display form.
// Either side may be nil.
func Compare(orig, curr *Metadata) []Row {
	keys := make(map[string]bool)
	for _, m := range []*Metadata{orig, curr} {
		if m == nil {
			continue
		}
		for k := range m.Fields {
			keys[k] = true
		}
	}

	rows := make([]Row, 0, len(keys))
	for _, k := range slices.Sorted(maps.Keys(keys)) {
		r := Row{
			Tag:      k,
			Original: comparisonValue(orig, k, notPresent),
			Current:  comparisonValue(curr, k, removed),
		}
		r.Changed = r.Original != r.Current
		rows = append(rows, r)
	}
	return rows
}

// comparisonValue renders binary values as their length and tuples as
// their component count.
func comparisonValue(m *Metadata, key, missing string) string {
	if m == nil {
		return missing
	}
	f, ok := m.Fields[key]
	if !ok {
		return missing
	}
	switch {
	case f.Value.IsBinary():
		return fmt.Sprintf("[%d bytes]", len(f.Value.Bytes))
	case f.Value.IsMulti():
		return fmt.Sprintf("[%d values]", f.Value.Count())
	default:
		return f.Value.String()
	}
}

// truncate shortens s to 22 characters plus "..." when it would not fit a
// 25-character column.
func truncate(s string) string {
	r := []rune(s)
	if len(r) > columnWidth {
		return string(r[:truncateAt]) + "..."
	}
	return s
}

// WriteComparison renders rows as a three-column table. Changed rows are
// marked with a trailing "*".
func WriteComparison(w io.Writer, rows []Row) error {
	rule := strings.Repeat("=", 90)
	var b strings.Builder
	fmt.Fprintf(&b, "\nMetadata Comparison:\n%s\n", rule)
	fmt.Fprintf(&b, "%-30s | %-25s | %-25s\n", "Tag", "Original Value", "Current Value")
	fmt.Fprintln(&b, rule)
	for _, r := range rows {
		line := fmt.Sprintf("%-30s | %-25s | %-25s", r.Tag, truncate(r.Original), truncate(r.Current))
		if r.Changed {
			line += " *"
		}
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "* indicates changed or removed metadata")

	_, err := io.WriteString(w, b.String())
	return err
}
