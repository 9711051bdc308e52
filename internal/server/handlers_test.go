package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/athebyme/text-similarity/internal/business"
	"github.com/athebyme/text-similarity/pkg/middleware"
)

func newTestServer(t *testing.T, limits Limits) *Server {
	t.Helper()
	registry, err := business.NewRegistry(nil, "")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return NewServer(registry, nil, limits)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHandlePredict(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"partial overlap", `{"text1": "the cat sat", "text2": "the cat ran"}`, formatScore(business.Similarity("the cat sat", "the cat ran"))},
		{"identical", `{"text1": "abc", "text2": "abc"}`, "1.0"},
		{"empty vs whitespace", `{"text1": "", "text2": "   "}`, "0.0"},
		{"punctuation", `{"text1": "Hello, World!", "text2": "hello world"}`, "0.9166666666666666"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/predict", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
			}
			if got := rr.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestHandlePredictException(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))

	tests := []struct {
		name      string
		body      string
		wantTrace string
	}{
		{"missing text2", `{"text1": "a"}`, "text2"},
		{"missing both", `{}`, "text1 and text2"},
		{"invalid json", `{"text1": `, "invalid JSON payload"},
		{"not a string", `{"text1": 5, "text2": "a"}`, "invalid JSON payload"},
		{"array", `["a", "b"]`, "invalid JSON payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/predict", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			res := decode[ExceptionResponse](t, rr)
			if res.Error != "exception" {
				t.Errorf("error = %q, want exception", res.Error)
			}
			if !strings.Contains(res.Trace, tt.wantTrace) {
				t.Errorf("trace = %q, want containing %q", res.Trace, tt.wantTrace)
			}
		})
	}
}

func TestHandlePredictMethod(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))
	if rr := do(t, h, http.MethodGet, "/predict", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /predict status = %d, want 405", rr.Code)
	}
}

func TestHandleSimilarity(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))

	rr := do(t, h, http.MethodPost, "/api/v1/similarity",
		`{"text1": "the cat sat", "text2": "the cat ran", "explain": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
	}

	res := decode[SimilarityResponse](t, rr)
	if want := (4*(2.0/3) + 2*0.5) / 7; math.Abs(res.Similarity-want) > 1e-9 {
		t.Errorf("similarity = %v, want %v", res.Similarity, want)
	}
	if res.Metric != business.MetricNGram || res.Outcome != business.OutcomeBlended {
		t.Errorf("metric = %q, outcome = %q", res.Metric, res.Outcome)
	}
	if len(res.Levels) != 3 {
		t.Errorf("expected 3 levels with explain, got %d", len(res.Levels))
	}
}

func TestHandleSimilarityMetric(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))

	rr := do(t, h, http.MethodPost, "/api/v1/similarity",
		`{"text1": "kitten", "text2": "sitting", "metric": "levenshtein"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
	}

	res := decode[SimilarityResponse](t, rr)
	if res.Metric != business.MetricLevenshtein || math.Abs(res.Similarity-8.0/13) > 1e-9 {
		t.Errorf("unexpected response %+v", res)
	}
	if res.Levels != nil {
		t.Errorf("levels should be omitted without explain")
	}
}

func TestHandleSimilarityErrors(t *testing.T) {
	tests := []struct {
		name     string
		limits   Limits
		body     string
		wantCode int
	}{
		{"unknown metric", Limits{}, `{"text1": "a", "text2": "b", "metric": "cosine"}`, http.StatusBadRequest},
		{"missing text1", Limits{}, `{"text2": "b"}`, http.StatusBadRequest},
		{"invalid json", Limits{}, `not json`, http.StatusBadRequest},
		{"text too long", Limits{MaxTextLength: 5}, `{"text1": "abcdef", "text2": "b"}`, http.StatusBadRequest},
		{"body too large", Limits{MaxBodyBytes: 16}, `{"text1": "a long enough text", "text2": "b"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SetupRoutes(newTestServer(t, tt.limits))
			rr := do(t, h, http.MethodPost, "/api/v1/similarity", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %q)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if res := decode[ErrorResponse](t, rr); res.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestHandleSimilarityQuery(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))

	q := url.Values{}
	q.Set("text1", "Hello, World!")
	q.Set("text2", "hello world")
	rr := do(t, h, http.MethodGet, "/api/v1/similarity?"+q.Encode(), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
	}

	res := decode[SimilarityResponse](t, rr)
	if math.Abs(res.Similarity-22.0/24) > 1e-9 || res.Outcome != business.OutcomeNormalized {
		t.Errorf("unexpected response %+v", res)
	}

	// Empty values are valid texts, missing ones are not.
	rr = do(t, h, http.MethodGet, "/api/v1/similarity?text1=&text2=", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d for empty texts", rr.Code)
	}
	if res := decode[SimilarityResponse](t, rr); res.Similarity != 1.0 {
		t.Errorf("empty texts similarity = %v, want 1.0", res.Similarity)
	}

	if rr := do(t, h, http.MethodGet, "/api/v1/similarity?text1=a", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("missing text2 status = %d, want 400", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/similarity?text1=a&text2=b&explain=maybe", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad explain status = %d, want 400", rr.Code)
	}
}

func TestHandleMetricsList(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))

	rr := do(t, h, http.MethodGet, "/api/v1/metrics", "")
	res := decode[struct {
		Metrics []string `json:"metrics"`
		Default string   `json:"default"`
	}](t, rr)

	if res.Default != business.MetricNGram || len(res.Metrics) != 4 {
		t.Errorf("unexpected response %+v", res)
	}
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t, Limits{})
	h := SetupRoutes(s)

	do(t, h, http.MethodPost, "/predict", `{"text1": "a b", "text2": "a b"}`)
	do(t, h, http.MethodPost, "/predict", `{"text1": "a b", "text2": "a c"}`)
	do(t, h, http.MethodPost, "/predict", `{"text1": "a b"}`)

	res := decode[struct {
		Comparisons int64            `json:"comparisons"`
		Faults      int64            `json:"faults"`
		Outcomes    map[string]int64 `json:"outcomes"`
		Metrics     map[string]int64 `json:"metrics"`
	}](t, do(t, h, http.MethodGet, "/api/v1/stats", ""))

	if res.Comparisons != 2 || res.Faults != 1 {
		t.Errorf("comparisons = %d, faults = %d", res.Comparisons, res.Faults)
	}
	if res.Outcomes["identical"] != 1 || res.Outcomes["blended"] != 1 || res.Metrics["ngram"] != 2 {
		t.Errorf("unexpected breakdown %+v", res)
	}

	if rr := do(t, h, http.MethodPost, "/api/v1/stats/clear", ""); rr.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rr.Code)
	}
	if got := s.Stats.GetStats()["comparisons"]; got != int64(0) {
		t.Errorf("comparisons after clear = %v", got)
	}
}

func TestFaultBoundary(t *testing.T) {
	s := newTestServer(t, Limits{})
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("division by zero")
	})

	tests := []struct {
		name   string
		status int
	}{
		{"legacy", http.StatusOK},
		{"api", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.Recover(s.faultHandler(tt.status), panicking)
			rr := do(t, h, http.MethodPost, "/predict", `{}`)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			res := decode[ExceptionResponse](t, rr)
			if res.Error != "exception" || !strings.HasPrefix(res.Trace, "panic: division by zero") {
				t.Errorf("unexpected response %+v", res)
			}
			if !strings.Contains(res.Trace, "goroutine") {
				t.Errorf("trace should carry the stack: %q", res.Trace)
			}
		})
	}
}

func TestFaultAfterPartialResponse(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    int
		body    string
	}{
		{
			name: "body written",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("partial"))
				panic("late failure")
			},
			code: http.StatusOK,
			body: "partial",
		},
		{
			name: "header written",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				panic("late failure")
			},
			code: http.StatusAccepted,
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Limits{})
			h := middleware.Recover(s.faultHandler(http.StatusInternalServerError), tt.handler)
			rr := do(t, h, http.MethodPost, "/api/v1/similarity", `{}`)

			if rr.Code != tt.code {
				t.Errorf("status = %d, want %d", rr.Code, tt.code)
			}
			if rr.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.body)
			}
			if got := s.Stats.GetStats()["faults"]; got != int64(1) {
				t.Errorf("faults = %v, want 1", got)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := SetupRoutes(newTestServer(t, Limits{}))
	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK || rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Errorf("status = %d, request id = %q", rr.Code, rr.Header().Get(middleware.RequestIDHeader))
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{22.0 / 24, "0.9166666666666666"},
		{0.00001, "1e-05"},
	}

	for _, tt := range tests {
		if got := formatScore(tt.score); got != tt.want {
			t.Errorf("formatScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
