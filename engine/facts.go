package engine

// ============================================================================
// FACTS BUILDER — Accumulates the facts panel of one render
// ============================================================================

type factsBuilder struct {
	panel FactsPanel
}

func newFacts(title string) *factsBuilder {
	return &factsBuilder{panel: FactsPanel{Title: title, Facts: []Fact{}}}
}

func (b *factsBuilder) add(label, value string) *factsBuilder {
	b.panel.Facts = append(b.panel.Facts, Fact{Label: label, Value: value})
	return b
}

// addLaTeX adds a row whose value also has a typeset form. An empty latex
// string leaves the plain value only.
func (b *factsBuilder) addLaTeX(label, value, latex string) *factsBuilder {
	b.panel.Facts = append(b.panel.Facts, Fact{Label: label, Value: value, LaTeX: latex})
	return b
}

// headline adds an emphasized row, the panel's main answer.
func (b *factsBuilder) headline(label, value string) *factsBuilder {
	b.panel.Facts = append(b.panel.Facts, Fact{Label: label, Value: value, Emphasis: true})
	return b
}

// addIf adds the row only when value is non-empty.
func (b *factsBuilder) addIf(label, value string) *factsBuilder {
	if value != "" {
		b.add(label, value)
	}
	return b
}

func (b *factsBuilder) fact(f Fact) *factsBuilder {
	b.panel.Facts = append(b.panel.Facts, f)
	return b
}

func (b *factsBuilder) table(t FactTable) *factsBuilder {
	if len(t.Rows) > 0 {
		b.panel.Tables = append(b.panel.Tables, t)
	}
	return b
}

func (b *factsBuilder) note(s string) *factsBuilder {
	b.panel.Notes = append(b.panel.Notes, s)
	return b
}

func (b *factsBuilder) build() FactsPanel {
	return b.panel
}
