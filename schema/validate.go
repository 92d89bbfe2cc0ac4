package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotObject is returned when a payload is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Envelope is a payload decoded one level deep. Values stay raw so that
// validation never depends on numeric content.
type Envelope map[string]json.RawMessage

// Decode parses raw payload bytes into an Envelope.
func Decode(raw []byte) (Envelope, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrNotObject
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return env, nil
}

// String returns the value of key when it is a JSON string.
func (e Envelope) String(key string) string {
	v, ok := e[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// Type returns the payload's "type" discriminator.
func (e Envelope) Type() string {
	return e.String("type")
}

// lookup resolves a dotted path. It reports whether the key exists and
// whether its value is null.
func (e Envelope) lookup(path string) (present, isNull bool) {
	head, rest, nested := strings.Cut(path, ".")
	v, ok := e[head]
	if !ok {
		return false, false
	}
	null := bytes.Equal(bytes.TrimSpace(v), []byte("null"))
	if !nested {
		return true, null
	}
	if null {
		return false, false
	}
	child, err := Decode(v)
	if err != nil {
		return false, false
	}
	return child.lookup(rest)
}

// Missing returns the required fields absent from e, including those of
// the variant e selects. A non-nullable field holding null counts as absent.
func (c Contract) Missing(e Envelope) []string {
	var missing []string
	check := func(fields []Field) {
		for _, f := range fields {
			present, isNull := e.lookup(f.Name)
			if !present || (isNull && !f.Nullable) {
				missing = append(missing, f.Name)
			}
		}
	}
	check(c.Required)
	if c.HasVariants() {
		if fields, ok := c.Variants[e.String(c.VariantKey)]; ok {
			check(fields)
		}
	}
	return missing
}

// Variant returns the secondary discriminator value and whether the
// contract knows it. Contracts without variants always report true.
func (c Contract) Variant(e Envelope) (string, bool) {
	if !c.HasVariants() {
		return "", true
	}
	v := e.String(c.VariantKey)
	_, ok := c.Variants[v]
	return v, ok
}

// Report is the outcome of validating one payload.
type Report struct {
	Envelope Envelope
	Contract Contract

	// Known is false when the domain has no contract for the payload type.
	Known bool

	// Variant is the secondary discriminator value; VariantKnown is false
	// when the contract does not list it.
	Variant      string
	VariantKnown bool

	Missing []string
}

// OK reports whether the payload satisfies a known contract.
func (r Report) OK() bool {
	return r.Known && r.VariantKnown && len(r.Missing) == 0
}

// Validate decodes raw and checks it against the contract registered for
// its type in domain d. The error is non-nil only when raw is not a JSON
// object; contract problems are described by the Report.
func Validate(d Domain, raw []byte) (Report, error) {
	env, err := Decode(raw)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Envelope: env}
	c, ok := Lookup(d, env.Type())
	if !ok {
		return rep, nil
	}
	rep.Contract = c
	rep.Known = true
	rep.Variant, rep.VariantKnown = c.Variant(env)
	rep.Missing = c.Missing(env)
	return rep, nil
}
