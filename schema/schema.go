package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Domains and the payload contracts the compute service honors
// ============================================================================
// The compute service returns a discriminated union per domain. Every
// payload carries a "type" key, and some types carry a second discriminator
// ("operation" for coordinate geometry, "shape" for mensuration and solids).
// A Contract lists the fields a payload of that type must carry for the
// renderers to build a facts panel from it. Optional fields are not listed;
// renderers degrade when they are absent.
// ============================================================================

// Domain is the mathematical area an expression or payload belongs to.
type Domain string

const (
	Algebra    Domain = "algebra"
	Calculus   Domain = "calculus"
	Geometry   Domain = "geometry"
	Vectors    Domain = "vectors"
	Statistics Domain = "statistics"
)

// Domains returns every domain, in display order.
func Domains() []Domain {
	return []Domain{Calculus, Algebra, Geometry, Vectors, Statistics}
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	switch d {
	case Algebra, Calculus, Geometry, Vectors, Statistics:
		return true
	}
	return false
}

// ParseDomain converts user input ("Algebra", " vectors ") into a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}

// Field is one required key of a payload. Dotted names ("latex.function")
// address keys of nested objects. A Nullable field must be present but may
// be JSON null.
type Field struct {
	Name     string `json:"name"`
	Nullable bool   `json:"nullable,omitempty"`
}

// Contract describes one payload type.
type Contract struct {
	Domain   Domain  `json:"domain"`
	Type     string  `json:"type"`
	Required []Field `json:"required"`

	// VariantKey names the secondary discriminator, if any. Variants maps
	// each of its values to the additional fields that variant requires.
	VariantKey string             `json:"variantKey,omitempty"`
	Variants   map[string][]Field `json:"variants,omitempty"`
}

// HasVariants reports whether the contract routes on a second key.
func (c Contract) HasVariants() bool {
	return c.VariantKey != ""
}

// VariantNames returns the accepted values of the secondary discriminator.
func (c Contract) VariantNames() []string {
	names := make([]string, 0, len(c.Variants))
	for _, v := range variantOrder[c.Type] {
		if _, ok := c.Variants[v]; ok {
			names = append(names, v)
		}
	}
	return names
}

func req(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n}
	}
	return fields
}

func nullable(name string) Field {
	return Field{Name: name, Nullable: true}
}
