// Package mathviz turns math expressions into render-ready visualizations.
// Classify, sample, render; no drawing library required.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/mathviz/classify"
//	    "github.com/spektr-org/mathviz/engine"
//	)
//
//	domain := classify.Classify("x^2 - 5x + 6 = 0")
//	result, err := engine.Render(domain, payload,
//	    engine.WithLogger(logger),
//	)
//
//	chart, sweep, err := engine.SampleChart("tan(x)",
//	    engine.DefaultBinding(), engine.DefaultResolution)
//
// Render takes a payload produced by the compute service (fetched with the
// compute package) and returns a facts panel plus chart descriptions.
// SampleChart evaluates custom functions locally with the expr package and
// breaks curves at discontinuities. Charts export to CSV through helpers,
// rasterize to PNG through preview and upload through publish.
package mathviz
