package engine

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/mathviz/schema"
)

type fixture struct {
	name    string
	domain  schema.Domain
	variant string
	payload string
}

// fixtures holds one valid payload per type and variant the service sends.
var fixtures = []fixture{
	// algebra
	{"quadratic", schema.Algebra, "", `{"type":"algebra","equation_type":"Quadratic Equation",
		"original_expression":"x^2 - 4 = 0","real_solutions":[-2,2],"complex_solutions":[],
		"factored":"(x - 2)(x + 2)","analysis":{"degree":2,"discriminant":16},
		"latex":{"expression":"x^{2} - 4"},
		"plot_data":{"plot_type":"standard","x":[-3,0,3],"y":[5,-4,5],
			"solution_points":[{"x":-2,"y":0},{"x":2,"y":0}]}}`},
	{"complex roots", schema.Algebra, "", `{"type":"algebra","equation_type":"Quadratic Equation",
		"original_expression":"x^2 + 1 = 0","real_solutions":[],"complex_solutions":["i","-i"],
		"plot_data":{"plot_type":"complex_plane","real":[0,0],"imag":[1,-1],"labels":["i","-i"]}}`},
	{"linear system", schema.Algebra, "", `{"type":"algebra_system","system_size":"2x2",
		"is_nonlinear":false,"solution_method":"Substitution","equations":["x + y = 3","x - y = 1"],
		"solution":[{"x":2,"y":1}],
		"plot_data":{"type":"system_2d","lines":[{"x":[0,3],"y":[3,0],"name":"x + y = 3"},
			{"x":[0,3],"y":[-1,2],"name":"x - y = 1"}],"solution_point":{"x":2,"y":1}}}`},
	{"three variable system", schema.Algebra, "", `{"type":"algebra_system","system_size":"3x3",
		"equations":["x + y + z = 6","x - y = 0","z = 2"],"solution":[{"x":2,"y":2,"z":2}],
		"plot_data":null}`},
	{"inequality", schema.Algebra, "", `{"type":"algebra_inequality","is_rational":false,
		"inequality":"x^2 - 4 > 0","solution":"x < -2 or x > 2","interval_notation":"(-∞, -2) ∪ (2, ∞)",
		"critical_points":[-2,2],"sign_chart":[{"interval":"(-∞, -2)","sign":"+","satisfies":true}],
		"plot_data":{"x":[-3,0,3],"y":[5,-4,5],"shaded_regions":[{"x":-3,"y":5}],
			"critical_points":[-2,2],"solution":"x < -2 or x > 2"}}`},
	{"absolute", schema.Algebra, "", `{"type":"algebra_absolute","equation":"|x - 1| = 2",
		"plot_data":{"x":[-2,1,4],"y":[3,0,3],"horizontal_line":2,"is_absolute_value":true,
			"solution_points":[{"x":-1,"y":2},{"x":3,"y":2}]}}`},
	{"radical", schema.Algebra, "", `{"type":"algebra_radical","equation":"sqrt(x) = 3",
		"plot_data":{"x":[0,9],"y":[0,3]}}`},

	// calculus
	{"standard", schema.Calculus, "", `{"type":"calculus_standard","original_function":"x^3 - 3x",
		"derivative_1":"3x^2 - 3","derivative_2":"6x","derivative_3":"6","integral":"x^4/4 - 3x^2/2",
		"critical_points":[-1,1],"classified_points":[{"point":-1,"type":"local max"},{"point":1,"type":"local min"}],
		"inflection_points":[0],"interval_analysis":[{"interval":"(-∞, -1)","increasing":true,"concave_up":false}],
		"plot_data":{"x":[-2,0,2],"y_original":[-2,0,2],"y_derivative":[9,-3,9],"y_second_derivative":[-12,0,12],
			"critical_points":[{"x":-1,"y":2},{"x":1,"y":-2}],"inflection_points":[{"x":0,"y":0}]}}`},
	{"definite integral", schema.Calculus, "", `{"type":"calculus_definite_integral","function":"x^2",
		"lower_bound":0,"upper_bound":1,"definite_value":"1/3","numerical_value":0.333333,
		"indefinite_integral":"x^3/3",
		"plot_data":{"x":[-1,0,1,2],"y":[1,0,1,4],"x_fill":[0,0.5,1],"y_fill":[0,0.25,1],"bounds":[0,1]}}`},
	{"limit", schema.Calculus, "", `{"type":"calculus_limit","function":"sin(x)/x","approach_value":0,
		"limit_value":1,"left_limit":1,"right_limit":1,"limit_exists":true,
		"plot_data":{"x":[-1,1],"y":[0.84,0.84],"approach_point":0}}`},
	{"taylor", schema.Calculus, "", `{"type":"calculus_taylor_series","original_function":"exp(x)",
		"center":0,"order":2,"series_name":"Maclaurin","taylor_polynomial":"1 + x + x^2/2",
		"terms":[{"order":0,"coefficient":1,"term":"1"},{"order":1,"coefficient":1,"term":"x"}],
		"plot_data":{"x":[-1,0,1],"y_original":[0.37,1,2.72],"y_taylor":[0.5,1,2.5],"center":0}}`},
	{"partials", schema.Calculus, "", `{"type":"calculus_partial_derivatives","function":"x^2 + y^2",
		"variables":["x","y"],"partial_derivatives":{"x":{"first":"2x","second":"2"},"y":{"first":"2y","second":"2"}},
		"mixed_partials":{"xy":"0"},"critical_points":[{"point":"(0, 0)","classification":"minimum"}],
		"plot_data":{"x":[[0,1],[0,1]],"y":[[0,0],[1,1]],"z":[[0,1],[1,2]]}}`},
	{"partials without plot", schema.Calculus, "", `{"type":"calculus_partial_derivatives",
		"function":"x*y*z","variables":["x","y","z"],"partial_derivatives":{"x":{"first":"yz","second":"0"}},
		"plot_data":null}`},

	// geometry
	{"distance", schema.Geometry, "distance", `{"type":"coordinate_geometry","operation":"distance",
		"point1":[0,0],"point2":[3,4],"distance":5,"formula":"√((x₂-x₁)² + (y₂-y₁)²)",
		"plot_data":{"points":[[0,0],[3,4]],"line":[[0,3],[0,4]]}}`},
	{"midpoint", schema.Geometry, "midpoint", `{"type":"coordinate_geometry","operation":"midpoint",
		"point1":[0,0],"point2":[4,2],"midpoint":[2,1],
		"plot_data":{"line":[[0,4],[0,2]],"midpoint":[2,1]}}`},
	{"slope", schema.Geometry, "slope", `{"type":"coordinate_geometry","operation":"slope",
		"point1":[0,0],"point2":[2,4],"slope":2,"plot_data":{"points":[[0,0],[2,4]],"line":[[0,2],[0,4]]}}`},
	{"line equation", schema.Geometry, "line_equation", `{"type":"coordinate_geometry",
		"operation":"line_equation","point1":[0,1],"point2":[1,3],"equation":"y = 2x + 1",
		"plot_data":{"x":[0,1],"y":[1,3],"points":[[0,1],[1,3]]}}`},
	{"triangle area", schema.Geometry, "triangle_area", `{"type":"coordinate_geometry",
		"operation":"triangle_area","vertices":[[0,0],[4,0],[0,3]],"area":6,
		"plot_data":{"vertices":[[0,0],[4,0],[0,3]],"polygon":[[0,4,0,0],[0,0,3,0]]}}`},
	{"collinearity", schema.Geometry, "collinearity", `{"type":"coordinate_geometry",
		"operation":"collinearity","points":[[0,0],[1,1],[2,2]],"is_collinear":true,"area":0,
		"result":"Points are collinear","plot_data":{"points":[[0,0],[1,1],[2,2]],"line":[[0,2],[0,2]]}}`},
	{"circle construction", schema.Geometry, "circle_construction", `{"type":"circle",
		"operation":"circle_construction","center":[0,0],"radius":5,"area":78.54,"circumference":31.42,
		"equation":"x² + y² = 25","plot_data":{"x":[5,0,-5,0,5],"y":[0,5,0,-5,0],"center":[0,0]}}`},
	{"tangent length", schema.Geometry, "tangent_length", `{"type":"circle","operation":"tangent_length",
		"center":[0,0],"radius":3,"external_point":[5,0],"tangent_length":4,
		"plot_data":{"circle":{"x":[3,0,-3],"y":[0,3,0]},"center":[0,0],"point":[5,0]}}`},
	{"pythagoras", schema.Geometry, "pythagoras", `{"type":"triangle","operation":"pythagoras",
		"sides":{"a":3,"b":4,"c":5},"unknown":"c","theorem":"a² + b² = c²",
		"plot_data":{"polygon":[[0,3,0,0],[0,0,4,0]]}}`},
	{"triangle analysis", schema.Geometry, "triangle_analysis", `{"type":"triangle",
		"operation":"triangle_analysis","vertices":[[0,0],[4,0],[0,3]],"triangle_type":"Right Scalene",
		"sides":{"AB":4,"BC":5,"CA":3},"area":6,"perimeter":12,
		"plot_data":{"vertices":[[0,0],[4,0],[0,3]],"polygon":[[0,4,0,0],[0,0,3,0]]}}`},
	{"centroid", schema.Geometry, "centroid", `{"type":"triangle","operation":"centroid",
		"vertices":[[0,0],[3,0],[0,3]],"centroid":[1,1],
		"plot_data":{"polygon":[[0,3,0,0],[0,0,3,0]],"centroid":[1,1]}}`},
	{"circumcenter", schema.Geometry, "circumcenter", `{"type":"triangle","operation":"circumcenter",
		"vertices":[[0,0],[4,0],[0,3]],"circumcenter":[2,1.5],"circumradius":2.5,
		"plot_data":{"polygon":[[0,4,0,0],[0,0,3,0]],"circumcenter":[2,1.5],
			"circle":{"x":[4.5,2,-0.5],"y":[1.5,4,1.5]}}}`},
	{"rectangle", schema.Geometry, "rectangle", `{"type":"mensuration_2d","shape":"rectangle",
		"length":4,"width":2,"area":8,"perimeter":12,"plot_data":{"vertices":[[0,0],[4,0],[4,2],[0,2]]}}`},
	{"square", schema.Geometry, "square", `{"type":"mensuration_2d","shape":"square","side":3,
		"area":9,"perimeter":12,"plot_data":{"vertices":[[0,0],[3,0],[3,3],[0,3]]}}`},
	{"circle mensuration", schema.Geometry, "circle", `{"type":"mensuration_2d","shape":"circle",
		"radius":2,"area":12.566,"plot_data":{"x":[2,0,-2,0,2],"y":[0,2,0,-2,0]}}`},
	{"cube", schema.Geometry, "cube", `{"type":"solid_3d","shape":"cube","side":2,"volume":8,
		"surface_area":24,"formulas":{"volume":"a³","surface_area":"6a²"},
		"plot_data":{"vertices":[[0,0,0],[2,0,0],[2,2,0],[0,2,0],[0,0,2],[2,0,2],[2,2,2],[0,2,2]]}}`},
	{"cuboid", schema.Geometry, "cuboid", `{"type":"solid_3d","shape":"cuboid",
		"dimensions":{"length":3,"width":2,"height":1},"volume":6,"surface_area":22,
		"plot_data":{"vertices":[[0,0,0],[3,0,0],[3,2,0],[0,2,0],[0,0,1],[3,0,1],[3,2,1],[0,2,1]]}}`},
	{"cylinder", schema.Geometry, "cylinder", `{"type":"solid_3d","shape":"cylinder","radius":1,
		"height":2,"volume":6.283,"curved_surface_area":12.566,"total_surface_area":18.85,
		"plot_data":{"x":[[1,0],[1,0]],"y":[[0,1],[0,1]],"z":[[0,0],[2,2]]}}`},
	{"cone", schema.Geometry, "cone", `{"type":"solid_3d","shape":"cone","radius":3,"height":4,
		"slant_height":5,"volume":37.699,"curved_surface_area":47.124,"total_surface_area":75.398,
		"plot_data":{"x":[[3,0],[0,0]],"y":[[0,3],[0,0]],"z":[[0,0],[4,4]]}}`},
	{"sphere", schema.Geometry, "sphere", `{"type":"solid_3d","shape":"sphere","radius":1,
		"volume":4.189,"surface_area":12.566,"plot_data":{"x":[[0,1],[0,1]],"y":[[0,0],[1,1]],"z":[[1,0],[-1,0]]}}`},
	{"hemisphere", schema.Geometry, "hemisphere", `{"type":"solid_3d","shape":"hemisphere",
		"radius":1,"volume":2.094,"curved_surface_area":6.283,"total_surface_area":9.425,
		"plot_data":{"x":[[0,1],[0,1]],"y":[[0,0],[1,1]],"z":[[1,0],[0,0]]}}`},
	{"geometry equation circle", schema.Geometry, "circle", `{"type":"geometry_equation",
		"shape_type":"circle","equation":"x² + y² = 25",
		"properties":{"center":[0,0],"radius":5,"area":78.5398},
		"plot_data":{"type":"circle","x":[5,0,-5],"y":[0,5,0],"center":[0,0]}}`},
	{"geometry equation ellipse", schema.Geometry, "ellipse", `{"type":"geometry_equation",
		"shape_type":"ellipse","equation":"x²/4 + y² = 1",
		"plot_data":{"type":"contour","x":[[0,1],[0,1]],"y":[[0,0],[1,1]],"z":[[-1,0],[0,1]]}}`},

	// vectors
	{"single vector", schema.Vectors, "", `{"type":"vector_single","vector":[3,4,0],"magnitude":5,
		"unit_vector":[0.6,0.8,0],"plot_data":{"vectors":[{"origin":[0,0,0],"vector":[3,4,0],"label":"v"}]}}`},
	{"vector pair", schema.Vectors, "", `{"type":"vector_pair","vector1":[1,0,0],"vector2":[0,1,0],
		"dot_product":0,"cross_product":[0,0,1],"angle_degrees":90,"angle_radians":1.5708,
		"plot_data":{"vectors":[{"vector":[1,0,0],"label":"v1"},{"vector":[0,1,0],"label":"v2","color":"#764ba2"}]}}`},
	{"vector multiple", schema.Vectors, "", `{"type":"vector_multiple","vectors":[[1,0,0],[0,2,0],[0,0,3]],
		"plot_data":{"vectors":[{"vector":[1,0,0]},{"vector":[0,2,0]},{"vector":[0,0,3]}]}}`},

	// statistics
	{"descriptive", schema.Statistics, "", `{"type":"descriptive_statistics","n":5,
		"statistics":{"mean":3,"median":3,"mode":0,"std_dev":1.58,"variance":2.5,"min":1,"max":5,"range":4,
			"q1":2,"q2":3,"q3":4,"iqr":2,"skewness":0,"kurtosis":-1.3},
		"plot_data":{"histogram":{"counts":[1,1,1,1,1],"bin_centers":[1,2,3,4,5]},
			"boxplot":{"outliers":[],"lower_fence":-1,"upper_fence":7},"raw_data":[1,2,3,4,5]}}`},
	{"normal", schema.Statistics, "", `{"type":"normal_distribution",
		"parameters":{"mean":0,"std_dev":1,"variance":1},
		"probabilities":{"p_less_than":0.8413,"p_greater_than":0.1587,"pdf_at_x":0.242,"z_score":1},
		"confidence_intervals":{"95%":{"lower":-1.96,"upper":1.96}},
		"plot_data":{"x":[-1,0,1],"pdf":[0.242,0.399,0.242],"mean_line":0}}`},
	{"binomial", schema.Statistics, "", `{"type":"binomial_distribution",
		"parameters":{"n":10,"p":0.5,"q":0.5},"statistics":{"mean":5,"variance":2.5,"std_dev":1.58},
		"plot_data":{"x":[0,1,2],"pmf":[0.001,0.01,0.044]}}`},
	{"poisson", schema.Statistics, "", `{"type":"poisson_distribution","parameters":{"lambda":3},
		"statistics":{"mean":3,"variance":3,"std_dev":1.73},"plot_data":{"x":[0,1,2],"pmf":[0.05,0.15,0.22]}}`},
	{"one sample t", schema.Statistics, "", `{"type":"one_sample_t_test","test_statistic":2.5,
		"p_value":0.034,"degrees_of_freedom":9,"critical_values":{"lower":-2.262,"upper":2.262},
		"null_hypothesis":"μ = 50","decision":{"reject_null":true,"alpha":0.05,"conclusion":"Reject H₀"},
		"sample_statistics":{"mean":52,"std_dev":2.5,"n":10},
		"plot_data":{"x":[-3,0,3],"pdf":[0.01,0.39,0.01],"t_statistic":2.5,"critical_values":[-2.262,2.262]}}`},
	{"two sample t", schema.Statistics, "", `{"type":"two_sample_t_test","test_statistic":-1.2,
		"p_value":0.25,"decision":{"reject_null":false,"alpha":0.05,"conclusion":"Fail to reject H₀"},
		"sample_statistics":{"mean1":5,"mean2":6,"std1":1,"std2":1.2,"n1":10,"n2":12}}`},
	{"z test", schema.Statistics, "", `{"type":"z_test","test_statistic":1.96,"p_value":0.05,
		"critical_value":1.96,"decision":{"reject_null":false,"alpha":0.05,"conclusion":"Fail to reject H₀"},
		"plot_data":{"x":[-3,0,3],"pdf":[0.004,0.399,0.004],"z_statistic":1.96}}`},
	{"linear regression", schema.Statistics, "", `{"type":"linear_regression","equation":"y = 2x + 1",
		"statistics":{"r":0.99,"r_squared":0.98,"p_value":0.001,"std_err":0.1,"mse":0.05,"rmse":0.22},
		"plot_data":{"x_original":[1,2,3],"y_original":[3,5,7],"x_line":[1,3],"y_line":[3,7]}}`},
	{"polynomial regression", schema.Statistics, "", `{"type":"polynomial_regression","degree":2,
		"equation":"y = x² + 1","statistics":{"r_squared":1,"mse":0,"rmse":0},
		"plot_data":{"x_original":[0,1,2],"y_original":[1,2,5],"x_line":[0,1,2],"y_line":[1,2,5]}}`},
	{"correlation", schema.Statistics, "", `{"type":"correlation_analysis",
		"pearson":{"r":0.95,"p_value":0.001,"interpretation":"Strong positive"},
		"spearman":{"r":0.9,"p_value":0.002,"interpretation":"Strong positive"},
		"covariance":2.5,"plot_data":{"x":[1,2,3],"y":[2,4,6]}}`},
}

func TestRenderEveryPayloadType(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(string(fx.domain)+"/"+fx.name, func(t *testing.T) {
			res, err := Render(fx.domain, []byte(fx.payload))
			require.NoError(t, err)
			require.NotNil(t, res)

			env, err := schema.Decode([]byte(fx.payload))
			require.NoError(t, err)
			assert.Equal(t, fx.domain, res.Domain)
			assert.Equal(t, env.Type(), res.Type)
			assert.Equal(t, fx.variant, res.Variant)
			assert.False(t, res.Facts.Empty(), "facts panel is empty")
			assert.NotEmpty(t, res.Facts.Title)
			assert.True(t, len(res.Charts) > 0 || res.Message != "", "neither charts nor message")
		})
	}
}

func TestRenderCoversEveryRegisteredType(t *testing.T) {
	seen := make(map[string]bool)
	for _, fx := range fixtures {
		env, err := schema.Decode([]byte(fx.payload))
		require.NoError(t, err)
		seen[string(fx.domain)+"/"+env.Type()] = true
	}
	for _, c := range schema.Contracts() {
		assert.True(t, seen[string(c.Domain)+"/"+c.Type], "no fixture for %s/%s", c.Domain, c.Type)
	}
}

func TestRenderDefiniteIntegralShadesArea(t *testing.T) {
	res, err := RenderCalculus([]byte(fixtureNamed(t, "definite integral")))
	require.NoError(t, err)
	require.Len(t, res.Charts, 1)

	c := res.Charts[0]
	assert.Equal(t, "Definite Integral [0.00, 1.00]", c.Title)
	require.Len(t, c.Traces, 2)
	assert.Equal(t, "f(x)", c.Traces[0].Name)
	assert.Equal(t, "Area [0.00, 1.00]", c.Traces[1].Name)
	assert.Equal(t, "tozeroy", c.Traces[1].Fill)
	assert.Equal(t, Series{0, 0.5, 1}, c.Traces[1].X)

	var numeric Fact
	for _, f := range res.Facts.Facts {
		if f.Label == "Numerical Value" {
			numeric = f
		}
	}
	assert.Equal(t, "0.333333", numeric.Value)
	assert.True(t, numeric.Emphasis)
}

func TestRenderNonlinearSystemContours(t *testing.T) {
	payload := `{"type":"algebra_system","system_size":"2x2","is_nonlinear":true,
		"equations":["x^2 + y^2 = 25","y = x"],"solution":[{"x":3.5355,"y":3.5355},{"x":-3.5355,"y":-3.5355}],
		"plot_data":{"type":"system_2d_nonlinear",
			"contours":[
				{"x":[[-1,1],[-1,1]],"y":[[-1,-1],[1,1]],"z":[[1,1],[1,1]],"name":"x^2 + y^2 = 25"},
				{"x":[[-1,1],[-1,1]],"y":[[-1,-1],[1,1]],"z":[[0,-2],[2,0]]}
			],
			"solution_points":[{"x":3.5355,"y":3.5355},{"x":-3.5355,"y":-3.5355}]}}`

	res, err := RenderAlgebra([]byte(payload))
	require.NoError(t, err)
	require.Len(t, res.Charts, 1)

	traces := res.Charts[0].Traces
	require.Len(t, traces, 3)
	assert.Equal(t, KindContour, traces[0].Kind)
	assert.Equal(t, "x^2 + y^2 = 25", traces[0].Name)
	assert.Equal(t, KindContour, traces[1].Kind)
	assert.Equal(t, "Equation 2", traces[1].Name)
	assert.Equal(t, "Solutions", traces[2].Name)
	assert.Len(t, traces[2].X, 2)
	assert.True(t, res.Charts[0].EqualAspect)
}

func TestRenderDegradesGracefully(t *testing.T) {
	res, err := RenderAlgebra([]byte(fixtureNamed(t, "three variable system")))
	require.NoError(t, err)
	assert.Empty(t, res.Charts)
	assert.Equal(t, "System solved (3+ variables - no visualization)", res.Message)

	res, err = RenderAlgebra([]byte(`{"type":"algebra_system","system_size":"2x2",
		"equations":["x + y = 1","x + y = 2"],"solution":null,"plot_data":null}`))
	require.NoError(t, err)
	assert.Equal(t, "No solution found", res.Facts.Facts[len(res.Facts.Facts)-1].Value)

	res, err = RenderCalculus([]byte(fixtureNamed(t, "partials without plot")))
	require.NoError(t, err)
	assert.Empty(t, res.Charts)
	assert.NotEmpty(t, res.Facts.Tables)
}

func TestRenderErrors(t *testing.T) {
	t.Run("unknown domain", func(t *testing.T) {
		_, err := Render(schema.Domain("topology"), []byte(`{"type":"knot"}`))
		assert.ErrorIs(t, err, ErrUnknownDomain)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := RenderCalculus([]byte(`{"type":"calculus_fourier","function":"x"}`))
		var ute *UnknownTypeError
		require.True(t, errors.As(err, &ute))
		assert.Equal(t, schema.Calculus, ute.Domain)
		assert.Equal(t, "calculus_fourier", ute.Type)
		assert.Empty(t, ute.Variant)
	})

	t.Run("type from another domain", func(t *testing.T) {
		_, err := RenderVectors([]byte(fixtureNamed(t, "limit")))
		var ute *UnknownTypeError
		require.True(t, errors.As(err, &ute))
		assert.Equal(t, schema.Vectors, ute.Domain)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := RenderGeometry([]byte(`{"type":"coordinate_geometry","operation":"reflection","plot_data":{}}`))
		var ute *UnknownTypeError
		require.True(t, errors.As(err, &ute))
		assert.Equal(t, schema.Geometry, ute.Domain)
		assert.Equal(t, "reflection", ute.Variant)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := RenderCalculus([]byte(`{"type":"calculus_limit","function":"1/x","plot_data":{}}`))
		var ce *ContractError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, schema.Calculus, ce.Domain)
		assert.Equal(t, "calculus_limit", ce.Type)
		assert.Equal(t, []string{"approach_value", "limit_value", "plot_data.x", "plot_data.y"}, ce.Missing)
	})

	t.Run("empty plot series", func(t *testing.T) {
		tests := []struct {
			payload string
			missing []string
		}{
			{
				`{"type":"calculus_definite_integral","function":"x^2","lower_bound":0,"upper_bound":1,
					"definite_value":"1/3","numerical_value":null,"plot_data":{}}`,
				[]string{"plot_data.x", "plot_data.y", "plot_data.x_fill", "plot_data.y_fill"},
			},
			{
				`{"type":"calculus_definite_integral","function":"x^2","lower_bound":0,"upper_bound":1,
					"definite_value":"1/3","numerical_value":null,"plot_data":{"x":[0,1],"y":[0,1]}}`,
				[]string{"plot_data.x_fill", "plot_data.y_fill"},
			},
			{
				`{"type":"calculus_taylor_series","original_function":"exp(x)","center":0,"order":2,
					"taylor_polynomial":"1 + x","plot_data":{"x":[0,1],"y_original":[1,2.72]}}`,
				[]string{"plot_data.y_taylor"},
			},
		}
		for _, tt := range tests {
			res, err := RenderCalculus([]byte(tt.payload))
			assert.Nil(t, res)
			var ce *ContractError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.missing, ce.Missing)
		}
	})

	t.Run("missing variant fields", func(t *testing.T) {
		_, err := RenderGeometry([]byte(`{"type":"coordinate_geometry","operation":"distance",
			"point1":[0,0],"plot_data":{}}`))
		var ce *ContractError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, []string{"point2", "distance"}, ce.Missing)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := RenderAlgebra([]byte(`[1, 2, 3]`))
		var ce *ContractError
		require.True(t, errors.As(err, &ce))
		assert.ErrorIs(t, err, schema.ErrNotObject)
	})

	t.Run("wrong field shape", func(t *testing.T) {
		_, err := RenderAlgebra([]byte(`{"type":"algebra","original_expression":"x","real_solutions":"none"}`))
		var ce *ContractError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "algebra", ce.Type)
		assert.Empty(t, ce.Missing)
		assert.Error(t, ce.Err)
	})
}

func TestRenderParsingInfo(t *testing.T) {
	payload := `{"type":"vector_single","vector":[1,0,0],"magnitude":1,"unit_vector":[1,0,0],
		"plot_data":{"vectors":[]},
		"parsing_info":{"original_input":"magnitude of i","parsed_input":"\\hat{i}","method":"ai"}}`
	res, err := RenderVectors([]byte(payload))
	require.NoError(t, err)
	require.NotEmpty(t, res.Facts.Notes)
	assert.Equal(t, `Parsed "magnitude of i" as \hat{i} (ai)`, res.Facts.Notes[len(res.Facts.Notes)-1])
}

func TestRenderRecordsMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	_, err := RenderVectors([]byte(fixtureNamed(t, "single vector")), WithMetrics(m))
	require.NoError(t, err)
	_, err = RenderVectors([]byte(`{"type":"vector_single"}`), WithMetrics(m))
	require.Error(t, err)
	_, err = RenderVectors([]byte(`{"type":"vector_quad"}`), WithMetrics(m))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("vectors", "vector_single", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("vectors", "vector_single", "contract_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("vectors", "vector_quad", "unknown_type")))
}

func TestRenderIsStateless(t *testing.T) {
	raw := []byte(fixtureNamed(t, "normal"))
	first, err := RenderStatistics(raw)
	require.NoError(t, err)
	second, err := RenderStatistics(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func fixtureNamed(t *testing.T, name string) string {
	t.Helper()
	for _, fx := range fixtures {
		if fx.name == name {
			return fx.payload
		}
	}
	t.Fatalf("no fixture %q", name)
	return ""
}
