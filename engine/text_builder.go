package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ============================================================================
// TEXT BUILDER — Plain-text rendering of a Result
// ============================================================================

// BuildText renders the facts panel of a result for a terminal, followed by
// a one-line summary of each chart.
func BuildText(res *Result) string {
	if res == nil {
		return ""
	}
	var b strings.Builder

	title := res.Facts.Title
	if title == "" {
		title = labelFor(res.Type)
	}
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(title)))
	b.WriteByte('\n')

	width := 0
	for _, f := range res.Facts.Facts {
		if n := utf8.RuneCountInString(f.Label); n > width {
			width = n
		}
	}
	for _, f := range res.Facts.Facts {
		value := f.Value
		if value == "" {
			value = f.LaTeX
		}
		marker := " "
		if f.Emphasis {
			marker = "*"
		}
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(f.Label))
		fmt.Fprintf(&b, "%s %s:%s %s\n", marker, f.Label, pad, value)
	}

	for _, t := range res.Facts.Tables {
		b.WriteByte('\n')
		b.WriteString(BuildTable(t))
	}
	if len(res.Facts.Notes) > 0 {
		b.WriteByte('\n')
		for _, n := range res.Facts.Notes {
			fmt.Fprintf(&b, "• %s\n", n)
		}
	}

	if res.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", res.Message)
	}
	for _, c := range res.Charts {
		fmt.Fprintf(&b, "\n[chart] %s (%s)\n", c.Title, describeTraces(c.Traces))
	}
	return b.String()
}

// describeTraces lists named traces, e.g. "f(x), Solutions".
func describeTraces(traces []Trace) string {
	names := make([]string, 0, len(traces))
	unnamed := 0
	for _, t := range traces {
		if t.Name == "" {
			unnamed++
			continue
		}
		names = append(names, t.Name)
	}
	if unnamed > 0 {
		names = append(names, fmt.Sprintf("%d unnamed %s", unnamed, plural(unnamed, "trace")))
	}
	return strings.Join(names, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
