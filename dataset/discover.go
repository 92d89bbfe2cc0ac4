// Package dataset turns tabular text into the numeric series the statistics
// operations take.
//
// DiscoverColumns inspects CSV data and reports which columns hold usable
// numbers; Columns pulls row-aligned series out of it for paired operations
// such as regression; ParseNumberList reads a free-form list typed at the
// command line.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================================
// COLUMN DISCOVERY
// ============================================================================
// Pipeline per column:
//   1. Collect values, counting empty/null markers
//   2. Parse numbers → numeric if 80%+ of present values parse
//   3. Classify → usable series, row index, or skipped
// ============================================================================

// ErrNoData is returned when the input has a header but no rows.
var ErrNoData = errors.New("dataset: no data rows")

// numericThreshold is the share of present values that must parse.
const numericThreshold = 0.8

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all, capped at 100000). Default: 10000
	RecoverColumns []string // Force-include columns skipped as row indexes
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{SampleSize: 10000}
}

// Column describes one CSV column.
type Column struct {
	Header      string
	Key         string // snake_case header
	DisplayName string
	Index       int

	// Values holds the parsed numbers in row order, nulls and unparseable
	// cells dropped.
	Values    []float64
	NullCount int
	Unique    int
	Integer   bool // every value is a whole number

	Usable     bool
	SkipReason string
}

// Table is the result of discovery.
type Table struct {
	Columns []Column
	Rows    int

	rows [][]string
}

// DiscoverColumns reads CSV data with a header row and classifies every
// column.
func DiscoverColumns(data []byte, opts ...DiscoverOptions) (*Table, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000
	}
	var rows [][]string
	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	recovered := make(map[string]bool)
	for _, c := range opt.RecoverColumns {
		recovered[strings.ToLower(c)] = true
	}

	t := &Table{Rows: len(rows), rows: rows}
	for i, h := range headers {
		col := analyzeColumn(h, i, rows)
		if !col.Usable && col.SkipReason == reasonRowIndex &&
			(recovered[strings.ToLower(col.Header)] || recovered[col.Key]) {
			col.Usable = true
			col.SkipReason = ""
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

const reasonRowIndex = "Sequential integers, likely a row index"

// analyzeColumn parses every value in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string) Column {
	col := Column{
		Header:      strings.TrimSpace(header),
		Key:         toSnakeCase(strings.TrimSpace(header)),
		DisplayName: toDisplayName(header),
		Index:       index,
		Integer:     true,
	}

	present := 0
	unique := make(map[float64]bool)
	for _, row := range rows {
		if index >= len(row) || isNull(row[index]) {
			col.NullCount++
			continue
		}
		present++
		v, ok := parseNumber(row[index])
		if !ok {
			continue
		}
		col.Values = append(col.Values, v)
		unique[v] = true
		if v != math.Trunc(v) {
			col.Integer = false
		}
	}
	col.Unique = len(unique)

	switch {
	case present == 0:
		col.SkipReason = "All values are empty/null"
		col.Integer = false
	case float64(len(col.Values)) < numericThreshold*float64(present):
		col.SkipReason = fmt.Sprintf("Mostly non-numeric (%d of %d values parse)", len(col.Values), present)
		col.Integer = false
	case isRowIndex(col, len(rows)):
		col.SkipReason = reasonRowIndex
	default:
		col.Usable = true
	}
	return col
}

// isRowIndex reports a column of unique whole numbers stepping by one.
func isRowIndex(col Column, totalRows int) bool {
	if !col.Integer || totalRows <= 10 || col.Unique != totalRows || len(col.Values) != totalRows {
		return false
	}
	for i := 1; i < len(col.Values); i++ {
		if col.Values[i]-col.Values[i-1] != 1 {
			return false
		}
	}
	return true
}

// ============================================================================
// TABLE ACCESS
// ============================================================================

// Column finds a column by header (case-insensitive) or snake_case key.
func (t *Table) Column(name string) (*Column, bool) {
	name = strings.TrimSpace(name)
	for i := range t.Columns {
		c := &t.Columns[i]
		if strings.EqualFold(c.Header, name) || c.Key == toSnakeCase(name) {
			return c, true
		}
	}
	return nil, false
}

// Usable returns the columns that hold numeric series.
func (t *Table) Usable() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Usable {
			out = append(out, c)
		}
	}
	return out
}

// Series returns the values of the named column.
func (t *Table) Series(name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("dataset: no column %q (have %s)", name, t.headerList())
	}
	if !c.Usable {
		return nil, fmt.Errorf("dataset: column %q is not usable: %s", c.Header, c.SkipReason)
	}
	return c.Values, nil
}

// Aligned returns one series per named column, keeping only the rows where
// every named column holds a number. Paired operations need this.
func (t *Table) Aligned(names ...string) ([][]float64, error) {
	cols := make([]*Column, len(names))
	for i, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("dataset: no column %q (have %s)", n, t.headerList())
		}
		cols[i] = c
	}

	out := make([][]float64, len(names))
	for _, row := range t.rows {
		vals := make([]float64, len(cols))
		complete := true
		for i, c := range cols {
			if c.Index >= len(row) {
				complete = false
				break
			}
			v, ok := parseNumber(row[c.Index])
			if !ok {
				complete = false
				break
			}
			vals[i] = v
		}
		if !complete {
			continue
		}
		for i, v := range vals {
			out[i] = append(out[i], v)
		}
	}
	if len(names) > 0 && len(out[0]) == 0 {
		return nil, fmt.Errorf("dataset: no row has numbers in every column of %s", strings.Join(names, ", "))
	}
	return out, nil
}

func (t *Table) headerList() string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	sort.Strings(headers)
	return strings.Join(headers, ", ")
}

// Columns discovers data and returns the row-aligned series for names.
func Columns(data []byte, names ...string) ([][]float64, error) {
	if len(names) == 0 {
		return nil, errors.New("dataset: no columns requested")
	}
	t, err := DiscoverColumns(data)
	if err != nil {
		return nil, err
	}
	return t.Aligned(names...)
}

// ============================================================================
// VALUE PARSING
// ============================================================================

// isNull reports an empty cell or a common null marker.
func isNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a", "NA", "-":
		return true
	}
	return false
}

// parseNumber reads "1,234.5", "$12", "-€3" and plain floats. Non-finite
// values are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for _, sym := range []string{"$", "€", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// ParseNumberList reads a list like "1, 2.5, 3", "[1 2 3]" or one number per
// line. Commas, semicolons and whitespace all separate values.
func ParseNumberList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, errors.New("dataset: empty number list")
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("dataset: %q is not a number", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "test_score" → "Test Score", "Height (cm)" stays as is.
func toDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return s
	}
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
