package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError is an error with the status code to answer it with.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ErrorResponse is the body of a client error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExceptionResponse is the body of a fault: an "exception" marker and a
// diagnostic trace.
type ExceptionResponse struct {
	Error string `json:"error"`
	Trace string `json:"trace"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// handleError answers an HTTPError with its code and anything else with 500.
func handleError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Code, ErrorResponse{Error: httpErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
