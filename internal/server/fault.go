package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/athebyme/text-similarity/pkg/metrics"
	"github.com/athebyme/text-similarity/pkg/middleware"
)

// faultHandler builds the recover callback for a route. status is 200 for
// /predict and 500 elsewhere.
func (s *Server) faultHandler(status int) middleware.FaultHandler {
	return func(w http.ResponseWriter, r *http.Request, recovered any, stack []byte) {
		s.Logger.Error("Recovered from panic",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"panic", fmt.Sprint(recovered),
		)
		if middleware.Written(w) {
			// Headers are gone; appending the exception would corrupt the body.
			metrics.RecordFault()
			s.Stats.RecordFault()
			return
		}
		s.writeException(w, r, status, fmt.Sprintf("panic: %v\n\n%s", recovered, stack))
	}
}

// writeException answers with {"error": "exception", "trace": trace}.
func (s *Server) writeException(w http.ResponseWriter, r *http.Request, status int, trace string) {
	metrics.RecordFault()
	s.Stats.RecordFault()
	s.Logger.Warn("Request failed",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"error", firstLine(trace),
	)

	if err := writeJSON(w, status, ExceptionResponse{Error: "exception", Trace: trace}); err != nil {
		s.Logger.Error("Error encoding response", "error", err)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
