package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spektr-org/mathviz/schema"
)

var (
	// ErrUnknownDomain is returned by Render for a domain it has no renderer for.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrNoValidPoints is returned by SampleChart when no point in the range
	// evaluated.
	ErrNoValidPoints = errors.New("no valid points in range")

	// ErrEmptyExpression is returned when there is nothing to sample.
	ErrEmptyExpression = errors.New("empty expression")
)

// ContractError reports a payload that lacks fields its type requires, or
// whose fields do not decode into the shape the type declares.
type ContractError struct {
	Domain  schema.Domain
	Type    string
	Missing []string
	Err     error
}

func (e *ContractError) Error() string {
	if len(e.Missing) == 0 && e.Err != nil {
		return fmt.Sprintf("%s payload %q: %v", e.Domain, e.Type, e.Err)
	}
	return fmt.Sprintf("%s payload %q is missing required fields: %s",
		e.Domain, e.Type, strings.Join(e.Missing, ", "))
}

func (e *ContractError) Unwrap() error { return e.Err }

// UnknownTypeError reports a payload type, or a secondary discriminator
// value, that the domain has no renderer for.
type UnknownTypeError struct {
	Domain schema.Domain
	Type   string

	// Variant is set when the type is known but its operation or shape is not.
	Variant string
}

func (e *UnknownTypeError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("%s payload %q: unknown variant %q", e.Domain, e.Type, e.Variant)
	}
	if e.Type == "" {
		return fmt.Sprintf("%s payload has no type", e.Domain)
	}
	return fmt.Sprintf("%s payload: unknown type %q", e.Domain, e.Type)
}
