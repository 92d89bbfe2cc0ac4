package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ============================================================================
// PAYLOAD DECODING — Shapes shared across domains
// ============================================================================

// xy is a {"x": .., "y": ..} point.
type xy struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func xyColumns(pts []xy) (Series, Series) {
	xs := make(Series, len(pts))
	ys := make(Series, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// field is one key of a JSON object, in document order.
type field struct {
	Key   string
	Value json.RawMessage
}

// orderedFields decodes a JSON object while keeping its key order, which
// the compute service uses to list variables and sides meaningfully.
type orderedFields []field

func (o *orderedFields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	var out orderedFields
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, field{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// get returns the raw value of key.
func (o orderedFields) get(key string) (json.RawMessage, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// scalarOf decodes raw as a Scalar. Objects and arrays become their JSON
// text so that nothing the service sends is dropped from the panel.
func scalarOf(raw json.RawMessage) Scalar {
	var s Scalar
	if err := json.Unmarshal(raw, &s); err != nil {
		return Text(string(bytes.TrimSpace(raw)))
	}
	return s
}

// decodeInto unmarshals a payload into its typed form.
func decodeInto(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// axisData is a plot axis sent as a flat series for curves and as a mesh
// grid for contours and surfaces.
type axisData struct {
	Flat Series
	Mesh Grid
}

func (a *axisData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = axisData{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		if inner := bytes.TrimSpace(data[1:]); len(inner) > 0 && inner[0] == '[' {
			return json.Unmarshal(data, &a.Mesh)
		}
	}
	return json.Unmarshal(data, &a.Flat)
}

// row returns row i of a [[xs], [ys]] pair, or nil.
func row(rows [][]float64, i int) Series {
	if i < len(rows) {
		return Series(rows[i])
	}
	return nil
}
