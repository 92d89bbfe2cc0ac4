package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spektr-org/mathviz/schema"
)

// ============================================================================
// EXECUTOR — Result dispatcher
// ============================================================================
// Entry point: Render(domain, payload, opts...)
//
// Pipeline:
//   1. Check the domain
//   2. Validate the raw payload against its registered contract
//   3. Dispatch on domain, then on payload type, to a renderer
//   4. Attach parsing info and return a render-ready Result
//
// The caller passes the domain explicitly. Nothing here remembers the
// previous render.
// ============================================================================

// Render turns one compute-service payload into a facts panel and charts.
//
// Errors: ErrUnknownDomain for a domain without a renderer,
// *UnknownTypeError for a type (or operation/shape) the domain does not
// know, and *ContractError when required fields are missing or do not
// decode.
func Render(domain schema.Domain, payload []byte, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger.With(slog.String("domain", string(domain)))

	if !domain.Valid() {
		cfg.Metrics.observeRender(string(domain), "", "unknown_domain")
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}

	rep, err := schema.Validate(domain, payload)
	if err != nil {
		cfg.Metrics.observeRender(string(domain), "", "contract_error")
		log.Warn("payload rejected", slog.String("error", err.Error()))
		return nil, &ContractError{Domain: domain, Err: err}
	}
	typ := rep.Envelope.Type()
	log = log.With(slog.String("type", typ))

	switch {
	case !rep.Known:
		cfg.Metrics.observeRender(string(domain), typ, "unknown_type")
		return nil, &UnknownTypeError{Domain: domain, Type: typ}
	case len(rep.Missing) > 0:
		cfg.Metrics.observeRender(string(domain), typ, "contract_error")
		log.Warn("payload contract violation", slog.Any("missing", rep.Missing))
		return nil, &ContractError{Domain: domain, Type: typ, Missing: rep.Missing}
	case !rep.VariantKnown:
		cfg.Metrics.observeRender(string(domain), typ, "unknown_type")
		return nil, &UnknownTypeError{Domain: domain, Type: typ, Variant: rep.Variant}
	}

	var res *Result
	switch domain {
	case schema.Algebra:
		res, err = renderAlgebra(typ, payload)
	case schema.Calculus:
		res, err = renderCalculus(typ, payload)
	case schema.Geometry:
		res, err = renderGeometry(typ, payload)
	case schema.Vectors:
		res, err = renderVectors(typ, payload)
	case schema.Statistics:
		res, err = renderStatistics(typ, payload)
	}
	if err != nil {
		var ute *UnknownTypeError
		if errors.As(err, &ute) {
			ute.Domain = domain
			cfg.Metrics.observeRender(string(domain), typ, "unknown_type")
			return nil, ute
		}
		cfg.Metrics.observeRender(string(domain), typ, "contract_error")
		log.Warn("payload does not decode", slog.String("error", err.Error()))
		return nil, &ContractError{Domain: domain, Type: typ, Err: err}
	}

	res.Domain = domain
	res.Type = typ
	if res.Variant == "" {
		res.Variant = rep.Variant
	}
	if info := parsingInfo(rep.Envelope); info != "" {
		res.Facts.Notes = append(res.Facts.Notes, info)
	}

	cfg.Metrics.observeRender(string(domain), typ, "ok")
	log.Debug("rendered payload",
		slog.Int("facts", len(res.Facts.Facts)),
		slog.Int("charts", len(res.Charts)))
	return res, nil
}

// RenderAlgebra renders an algebra payload.
func RenderAlgebra(payload []byte, opts ...Option) (*Result, error) {
	return Render(schema.Algebra, payload, opts...)
}

// RenderCalculus renders a calculus payload.
func RenderCalculus(payload []byte, opts ...Option) (*Result, error) {
	return Render(schema.Calculus, payload, opts...)
}

// RenderGeometry renders a geometry payload.
func RenderGeometry(payload []byte, opts ...Option) (*Result, error) {
	return Render(schema.Geometry, payload, opts...)
}

// RenderVectors renders a vectors payload.
func RenderVectors(payload []byte, opts ...Option) (*Result, error) {
	return Render(schema.Vectors, payload, opts...)
}

// RenderStatistics renders a statistics payload.
func RenderStatistics(payload []byte, opts ...Option) (*Result, error) {
	return Render(schema.Statistics, payload, opts...)
}

// ============================================================================
// PARSING INFO
// ============================================================================

// parsingInfo describes how the service rewrote free-form input, when it did.
func parsingInfo(env schema.Envelope) string {
	raw, ok := env["parsing_info"]
	if !ok {
		return ""
	}
	var info struct {
		OriginalInput string `json:"original_input"`
		ParsedInput   string `json:"parsed_input"`
		Method        string `json:"method"`
	}
	if err := json.Unmarshal(raw, &info); err != nil || info.ParsedInput == "" {
		return ""
	}
	if info.OriginalInput == "" || info.OriginalInput == info.ParsedInput {
		return fmt.Sprintf("Parsed input: %s (%s)", info.ParsedInput, info.Method)
	}
	return fmt.Sprintf("Parsed %q as %s (%s)", info.OriginalInput, info.ParsedInput, info.Method)
}
