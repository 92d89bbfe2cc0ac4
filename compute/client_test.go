package compute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/mathviz/schema"
)

func TestVisualizeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mathcompute/api/visualize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "x^2 - 4", body["latex"])
		assert.Equal(t, "algebra", body["module"])
		assert.NotContains(t, body, "use_ai")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"type":"algebra","original_expression":"x^2 - 4",
			"parsing_info":{"original_input":"x^2 - 4","parsed_input":"x^2 - 4","method":"fallback"}}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL + "/mathcompute/")
	resp, err := c.Visualize(context.Background(), VisualizeRequest{LaTeX: "x^2 - 4", Module: schema.Algebra})
	require.NoError(t, err)

	assert.Equal(t, "algebra", resp.Type())
	_, err = uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
	require.NotNil(t, resp.ParsingInfo)
	assert.Equal(t, "fallback", resp.ParsingInfo.Method)
}

func TestVisualizeSendsUseAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["use_ai"])
		w.Write([]byte(`{"success":true,"data":{"type":"vector_single"}}`))
	}))
	defer server.Close()

	off := false
	resp, err := NewClient(server.URL).Visualize(context.Background(),
		VisualizeRequest{LaTeX: `\hat{i}`, Module: schema.Vectors, UseAI: &off})
	require.NoError(t, err)
	assert.Nil(t, resp.ParsingInfo)
}

func TestVisualizeRejectsBadInput(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")

	_, err := c.Visualize(context.Background(), VisualizeRequest{LaTeX: "  ", Module: schema.Algebra})
	assert.True(t, IsFatal(err))

	_, err = c.Visualize(context.Background(), VisualizeRequest{LaTeX: "x", Module: schema.Statistics})
	assert.True(t, IsFatal(err))

	_, err = c.Visualize(context.Background(), VisualizeRequest{LaTeX: "x", Module: "topology"})
	assert.True(t, IsFatal(err))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transient bool
		message   string
	}{
		{"success false", http.StatusOK, `{"success":false,"error":"Could not parse input"}`, false, "Could not parse input"},
		{"bad request", http.StatusBadRequest, `{"success":false,"error":"Unknown module type: x"}`, false, "Unknown module type: x"},
		{"server error", http.StatusInternalServerError, `{"success":false,"error":"division by zero"}`, true, "division by zero"},
		{"rate limited", http.StatusTooManyRequests, `slow down`, true, "slow down"},
		{"bad gateway html", http.StatusBadGateway, `<html>bad gateway</html>`, true, "<html>bad gateway</html>"},
		{"malformed body", http.StatusOK, `not json`, false, ""},
		{"data not an object", http.StatusOK, `{"success":true,"data":[1,2]}`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Visualize(context.Background(),
				VisualizeRequest{LaTeX: "x", Module: schema.Calculus})
			require.Error(t, err)
			assert.Equal(t, tt.transient, IsTransient(err))
			assert.Equal(t, !tt.transient, IsFatal(err))

			if tt.message != "" {
				var se *ServiceError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.message, se.Message)
			}
		})
	}
}

func TestNetworkErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(server.URL, WithTimeout(0)).Health(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatisticsPostsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/statistics", r.URL.Path)
		var body StatsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "descriptive", body.Operation)
		assert.Equal(t, "1, 2, 3.5", body.Data)
		w.Write([]byte(`{"success":true,"data":{"type":"descriptive_statistics","n":3}}`))
	}))
	defer server.Close()

	req, err := BuildStatsRequest(OpDescriptive, StatsInput{Data: []float64{1, 2, 3.5}})
	require.NoError(t, err)
	resp, err := NewClient(server.URL).Statistics(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "descriptive_statistics", resp.Type())

	_, err = NewClient(server.URL).Statistics(context.Background(), StatsRequest{})
	assert.True(t, IsFatal(err))
}

func TestParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/parse", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "distance between origin and (3,4)", body["input"])
		assert.Equal(t, "geometry", body["module"])
		w.Write([]byte(`{"success":true,"original_input":"distance between origin and (3,4)",
			"ai_parsing":{"success":false,"result":"no API key"},
			"fallback_parsing":{"result":"distance((0,0),(3,4))"}}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL).Parse(context.Background(), "distance between origin and (3,4)", schema.Geometry)
	require.NoError(t, err)
	assert.False(t, res.AIParsing.Success)
	assert.Equal(t, "distance((0,0),(3,4))", res.FallbackParsing.Result)
	assert.NotEmpty(t, res.RequestID)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"status":"healthy","message":"Backend is running properly",
			"ai_parser_available":true,
			"features":{"ai_parsing":true,"fallback_parsing":true,"modules":["calculus","algebra","geometry","vectors"]}}`))
	}))
	defer server.Close()

	h, err := NewClient(server.URL).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())
	assert.True(t, h.AIParserAvailable)
	assert.Len(t, h.Features.Modules, 4)
}

func TestClientRecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := NewMetrics(prometheus.NewRegistry())
	c := NewClient(server.URL, WithMetrics(m))

	_, err := c.Health(context.Background())
	require.NoError(t, err)
	_, err = c.Visualize(context.Background(), VisualizeRequest{LaTeX: "x", Module: schema.Calculus})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(EndpointHealth, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(EndpointVisualize, "transient_error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Latency))
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://svc", NewClient("http://svc///").BaseURL())
}
