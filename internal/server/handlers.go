package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/athebyme/text-similarity/internal/business"
	"github.com/athebyme/text-similarity/pkg/metrics"
	"github.com/athebyme/text-similarity/pkg/middleware"
)

// PredictRequest is the body of POST /predict. Pointers tell a missing field
// from an empty string.
type PredictRequest struct {
	Text1 *string `json:"text1"`
	Text2 *string `json:"text2"`
}

// SimilarityRequest is the body of POST /api/v1/similarity
type SimilarityRequest struct {
	Text1   *string `json:"text1"`
	Text2   *string `json:"text2"`
	Metric  string  `json:"metric,omitempty"`
	Explain bool    `json:"explain,omitempty"`
}

// SimilarityResponse is returned by /api/v1/similarity
type SimilarityResponse struct {
	Similarity float64               `json:"similarity"`
	Metric     string                `json:"metric"`
	Outcome    business.Outcome      `json:"outcome"`
	Levels     []business.LevelScore `json:"levels,omitempty"`
}

// HandlePredict returns the similarity of text1 and text2 as plain text.
// POST /predict with request body:
// {"text1": "the cat sat", "text2": "the cat ran"}
//
// Every failure is answered with status 200 and an exception object, which is
// what existing clients of this endpoint parse.
func (s *Server) HandlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Limits.MaxBodyBytes)

	var payload PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeException(w, r, http.StatusOK, fmt.Sprintf("invalid JSON payload: %v", err))
		return
	}

	t1, t2, err := s.texts(payload.Text1, payload.Text2)
	if err != nil {
		s.writeException(w, r, http.StatusOK, err.Error())
		return
	}

	res, _, err := s.compare(r, business.MetricNGram, t1, t2)
	if err != nil {
		s.writeException(w, r, http.StatusOK, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, formatScore(res.Score))
}

// HandleSimilarity calculates the similarity of two texts with the chosen metric
// POST /api/v1/similarity with request body:
// {"text1": "...", "text2": "...", "metric": "ngram", "explain": true}
func (s *Server) HandleSimilarity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Limits.MaxBodyBytes)

	var req SimilarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handleError(w, &HTTPError{
				Code:    http.StatusRequestEntityTooLarge,
				Message: fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit),
			})
			return
		}
		handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid JSON payload: " + err.Error()})
		return
	}

	s.respondSimilarity(w, r, req)
}

// HandleSimilarityQuery is the query string form of HandleSimilarity
// GET /api/v1/similarity?text1=...&text2=...&metric=jaro&explain=true
func (s *Server) HandleSimilarityQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := SimilarityRequest{Metric: q.Get("metric")}
	if q.Has("text1") {
		t1 := q.Get("text1")
		req.Text1 = &t1
	}
	if q.Has("text2") {
		t2 := q.Get("text2")
		req.Text2 = &t2
	}
	if v := q.Get("explain"); v != "" {
		explain, err := strconv.ParseBool(v)
		if err != nil {
			handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid explain parameter"})
			return
		}
		req.Explain = explain
	}

	s.respondSimilarity(w, r, req)
}

func (s *Server) respondSimilarity(w http.ResponseWriter, r *http.Request, req SimilarityRequest) {
	t1, t2, err := s.texts(req.Text1, req.Text2)
	if err != nil {
		handleError(w, err)
		return
	}

	res, name, err := s.compare(r, req.Metric, t1, t2)
	if err != nil {
		handleError(w, err)
		return
	}

	response := SimilarityResponse{
		Similarity: res.Score,
		Metric:     name,
		Outcome:    res.Outcome,
	}
	if req.Explain {
		response.Levels = res.Levels
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleMetricsList lists the available similarity metrics
// GET /api/v1/metrics
func (s *Server) HandleMetricsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": s.Metrics.Names(),
		"default": s.Metrics.Default(),
	})
}

// HandleStats returns comparison statistics
// GET /api/v1/stats
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Stats.GetStats())
}

// HandleClearStats resets comparison statistics
// POST /api/v1/stats/clear
func (s *Server) HandleClearStats(w http.ResponseWriter, r *http.Request) {
	s.Stats.Clear()
	s.Logger.Info("Stats cleared", "request_id", middleware.RequestIDFromContext(r.Context()))

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Stats cleared",
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// texts checks that both texts are present and within the length limit.
func (s *Server) texts(text1, text2 *string) (string, string, error) {
	switch {
	case text1 == nil && text2 == nil:
		return "", "", &HTTPError{Code: http.StatusBadRequest, Message: "Missing required fields text1 and text2"}
	case text1 == nil:
		return "", "", &HTTPError{Code: http.StatusBadRequest, Message: "Missing required field text1"}
	case text2 == nil:
		return "", "", &HTTPError{Code: http.StatusBadRequest, Message: "Missing required field text2"}
	}

	if limit := s.Limits.MaxTextLength; limit > 0 {
		if utf8.RuneCountInString(*text1) > limit || utf8.RuneCountInString(*text2) > limit {
			return "", "", &HTTPError{
				Code:    http.StatusBadRequest,
				Message: fmt.Sprintf("Texts must not exceed %d characters", limit),
			}
		}
	}
	return *text1, *text2, nil
}

// compare scores t1 and t2 with the named metric and records the result.
func (s *Server) compare(r *http.Request, metric, t1, t2 string) (business.Result, string, error) {
	m, name, err := s.Metrics.Lookup(metric)
	if err != nil {
		return business.Result{}, "", &HTTPError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	res := m.Compare(t1, t2)

	s.Stats.Record(name, res.Outcome)
	metrics.RecordComparison(name, string(res.Outcome), res.Score)
	s.Logger.Debug("Similarity computed",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"metric", name,
		"outcome", res.Outcome,
		"score", res.Score,
	)
	return res, name, nil
}

// formatScore prints a score the way the endpoint always has: shortest
// representation, with a trailing ".0" for whole numbers.
func formatScore(score float64) string {
	out := strconv.FormatFloat(score, 'g', -1, 64)
	if !strings.ContainsAny(out, ".e") {
		out += ".0"
	}
	return out
}
