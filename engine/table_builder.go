package engine

import (
	"strings"
	"unicode/utf8"
)

// ============================================================================
// TABLE BUILDER — Plain-text layout of a FactTable
// ============================================================================
// Columns are padded to the widest cell. Width counts runes so that σ, ², √
// and friends line up.
// ============================================================================

// BuildTable lays out a fact table as aligned text, header first.
func BuildTable(t FactTable) string {
	if len(t.Rows) == 0 {
		return ""
	}

	ncol := len(t.Columns)
	for _, r := range t.Rows {
		if len(r) > ncol {
			ncol = len(r)
		}
	}
	widths := make([]int, ncol)
	measure := func(cells []string) {
		for i, c := range cells {
			if n := utf8.RuneCountInString(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(t.Columns)
	for _, r := range t.Rows {
		measure(r)
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(t.Title)
		b.WriteByte('\n')
	}
	if len(t.Columns) > 0 {
		writeRow(&b, t.Columns, widths)
		rule := make([]string, ncol)
		for i, w := range widths {
			rule[i] = strings.Repeat("-", w)
		}
		writeRow(&b, rule, widths)
	}
	for _, r := range t.Rows {
		writeRow(&b, r, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("  ")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)+2))
		}
	}
	b.WriteByte('\n')
}
