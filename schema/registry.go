package schema

// ============================================================================
// CONTRACT REGISTRY
// ============================================================================

var registry = []Contract{
	// ── Algebra ──────────────────────────────────────────────────────────────
	{Domain: Algebra, Type: "algebra", Required: req("original_expression")},
	{Domain: Algebra, Type: "algebra_system", Required: append(req("system_size", "equations"),
		nullable("solution"), nullable("plot_data"))},
	{Domain: Algebra, Type: "algebra_inequality", Required: req("inequality", "plot_data")},
	{Domain: Algebra, Type: "algebra_absolute", Required: req("equation", "plot_data")},
	{Domain: Algebra, Type: "algebra_radical", Required: req("equation", "plot_data")},

	// ── Calculus ─────────────────────────────────────────────────────────────
	{Domain: Calculus, Type: "calculus_standard", Required: req(
		"original_function", "derivative_1", "derivative_2", "integral",
		"plot_data", "plot_data.x", "plot_data.y_original")},
	{Domain: Calculus, Type: "calculus_definite_integral", Required: append(req(
		"function", "lower_bound", "upper_bound", "definite_value", "plot_data",
		"plot_data.x", "plot_data.y", "plot_data.x_fill", "plot_data.y_fill"),
		nullable("numerical_value"))},
	{Domain: Calculus, Type: "calculus_limit", Required: req(
		"function", "approach_value", "limit_value", "plot_data",
		"plot_data.x", "plot_data.y")},
	{Domain: Calculus, Type: "calculus_taylor_series", Required: req(
		"original_function", "center", "order", "taylor_polynomial", "plot_data",
		"plot_data.x", "plot_data.y_original", "plot_data.y_taylor")},
	{Domain: Calculus, Type: "calculus_partial_derivatives", Required: append(req(
		"function", "variables", "partial_derivatives"), nullable("plot_data"))},

	// ── Geometry ─────────────────────────────────────────────────────────────
	{Domain: Geometry, Type: "coordinate_geometry", Required: req("operation", "plot_data"),
		VariantKey: "operation", Variants: map[string][]Field{
			"distance":      req("point1", "point2", "distance"),
			"midpoint":      req("point1", "point2", "midpoint"),
			"slope":         req("point1", "point2", "slope"),
			"line_equation": req("point1", "point2", "equation"),
			"triangle_area": req("vertices", "area"),
			"collinearity":  req("points", "is_collinear", "area", "result"),
		}},
	{Domain: Geometry, Type: "circle", Required: req("operation", "center", "radius", "plot_data"),
		VariantKey: "operation", Variants: map[string][]Field{
			"circle_construction": req("area", "circumference", "equation"),
			"tangent_length":      req("external_point", "tangent_length"),
		}},
	{Domain: Geometry, Type: "triangle", Required: req("operation", "plot_data"),
		VariantKey: "operation", Variants: map[string][]Field{
			"pythagoras":        req("sides", "unknown"),
			"triangle_analysis": req("vertices", "triangle_type", "sides", "area", "perimeter"),
			"centroid":          req("vertices", "centroid"),
			"circumcenter":      req("vertices", "circumcenter", "circumradius"),
		}},
	{Domain: Geometry, Type: "mensuration_2d", Required: req("shape", "plot_data"),
		VariantKey: "shape", Variants: map[string][]Field{
			"rectangle": req("length", "width", "area", "perimeter"),
			"square":    req("side", "area", "perimeter"),
			"circle":    req("radius"),
		}},
	{Domain: Geometry, Type: "solid_3d", Required: req("shape", "volume", "plot_data"),
		VariantKey: "shape", Variants: map[string][]Field{
			"cube":       req("side", "surface_area"),
			"cuboid":     req("dimensions", "surface_area"),
			"cylinder":   req("radius", "height", "curved_surface_area", "total_surface_area"),
			"cone":       req("radius", "height", "slant_height", "curved_surface_area", "total_surface_area"),
			"sphere":     req("radius", "surface_area"),
			"hemisphere": req("radius", "curved_surface_area", "total_surface_area"),
		}},
	{Domain: Geometry, Type: "geometry_equation", Required: req("shape_type", "equation", "plot_data")},

	// ── Vectors ──────────────────────────────────────────────────────────────
	{Domain: Vectors, Type: "vector_single", Required: req("vector", "magnitude", "unit_vector", "plot_data")},
	{Domain: Vectors, Type: "vector_pair", Required: req(
		"vector1", "vector2", "dot_product", "cross_product", "angle_degrees", "plot_data")},
	{Domain: Vectors, Type: "vector_multiple", Required: req("vectors", "plot_data")},

	// ── Statistics ───────────────────────────────────────────────────────────
	{Domain: Statistics, Type: "descriptive_statistics", Required: req("n", "statistics", "plot_data")},
	{Domain: Statistics, Type: "normal_distribution", Required: req("parameters", "plot_data")},
	{Domain: Statistics, Type: "binomial_distribution", Required: req("parameters", "statistics", "plot_data")},
	{Domain: Statistics, Type: "poisson_distribution", Required: req("parameters", "statistics", "plot_data")},
	{Domain: Statistics, Type: "one_sample_t_test", Required: req("test_statistic", "p_value", "decision")},
	{Domain: Statistics, Type: "two_sample_t_test", Required: req("test_statistic", "p_value", "decision")},
	{Domain: Statistics, Type: "z_test", Required: req("test_statistic", "p_value", "decision")},
	{Domain: Statistics, Type: "linear_regression", Required: req("equation", "statistics", "plot_data")},
	{Domain: Statistics, Type: "polynomial_regression", Required: req("degree", "equation", "statistics", "plot_data")},
	{Domain: Statistics, Type: "correlation_analysis", Required: req("pearson", "spearman", "covariance", "plot_data")},
}

// variantOrder fixes the listing order of secondary discriminators.
var variantOrder = map[string][]string{
	"coordinate_geometry": {"distance", "midpoint", "slope", "line_equation", "triangle_area", "collinearity"},
	"circle":              {"circle_construction", "tangent_length"},
	"triangle":            {"pythagoras", "triangle_analysis", "centroid", "circumcenter"},
	"mensuration_2d":      {"rectangle", "square", "circle"},
	"solid_3d":            {"cube", "cuboid", "cylinder", "cone", "sphere", "hemisphere"},
}

type contractKey struct {
	domain Domain
	typ    string
}

var index = func() map[contractKey]Contract {
	m := make(map[contractKey]Contract, len(registry))
	for _, c := range registry {
		m[contractKey{c.Domain, c.Type}] = c
	}
	return m
}()

// Lookup returns the contract for a payload type within a domain.
func Lookup(d Domain, typ string) (Contract, bool) {
	c, ok := index[contractKey{d, typ}]
	return c, ok
}

// Types lists the payload types of a domain in registry order.
func Types(d Domain) []string {
	var types []string
	for _, c := range registry {
		if c.Domain == d {
			types = append(types, c.Type)
		}
	}
	return types
}

// Contracts returns a copy of every registered contract.
func Contracts() []Contract {
	out := make([]Contract, len(registry))
	copy(out, registry)
	return out
}
