package engine

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// FORMATTING — Fixed precision, scalars, points and vectors
// ============================================================================

// Display precisions.
const (
	PrecisionDefault  = 4
	PrecisionExtrema  = 3
	PrecisionVector   = 3
	PrecisionIntegral = 6
	PrecisionPValue   = 6
	PrecisionDegrees  = 2
	PrecisionBounds   = 2
)

// FormatFixed formats v with exactly prec decimals. Non-finite values get a
// readable marker instead of Go's "NaN"/"+Inf".
func FormatFixed(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "N/A"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:] // no "-0.0000"
	}
	return s
}

// FormatNumber formats v in its shortest exact decimal form (3, 2.5, 0.1).
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatFixed(v, 0)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatList formats each value with prec decimals, comma separated.
func FormatList(vs []float64, prec int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatFixed(v, prec)
	}
	return strings.Join(parts, ", ")
}

// formatVector renders "[1.00, -2.50, 3.00]".
func formatVector(v []float64) string {
	return "[" + FormatList(v, 2) + "]"
}

// formatPoint renders "(x, y)" using the values as given.
func formatPoint(p []float64) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = FormatNumber(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// labelFor turns "line_equation" into "LINE EQUATION".
func labelFor(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// titleFor turns "mixed_partials" into "Mixed partials".
func titleFor(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func checkMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// ============================================================================
// SCALAR — number-or-string payload values
// ============================================================================

// Scalar holds a payload value that the compute service sends either as a
// JSON number or as a string (symbolic results, "undefined", "oo").
type Scalar struct {
	num   float64
	text  string
	isNum bool
	set   bool
}

// Num returns a numeric Scalar.
func Num(v float64) Scalar { return Scalar{num: v, isNum: true, set: true} }

// Text returns a string Scalar.
func Text(s string) Scalar { return Scalar{text: s, set: true} }

// UnmarshalJSON accepts numbers, strings, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = Scalar{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Text(str)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = Text(strconv.FormatBool(b))
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Num(v)
	}
	return nil
}

// MarshalJSON writes the value back in the form it arrived.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch {
	case !s.set:
		return []byte("null"), nil
	case s.isNum:
		return json.Marshal(s.num)
	default:
		return json.Marshal(s.text)
	}
}

// Present reports whether the payload carried a non-null value.
func (s Scalar) Present() bool { return s.set }

// IsNumber reports whether the value arrived as a JSON number.
func (s Scalar) IsNumber() bool { return s.isNum }

// Float returns the numeric value, parsing numeric strings.
func (s Scalar) Float() (float64, bool) {
	if s.isNum {
		return s.num, true
	}
	if !s.set {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s.text), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Format renders numbers with prec decimals and strings verbatim.
func (s Scalar) Format(prec int) string {
	switch {
	case !s.set:
		return "N/A"
	case s.isNum:
		return FormatFixed(s.num, prec)
	default:
		return s.text
	}
}

// String renders numbers in shortest form and strings verbatim.
func (s Scalar) String() string {
	switch {
	case !s.set:
		return "N/A"
	case s.isNum:
		return FormatNumber(s.num)
	default:
		return s.text
	}
}
