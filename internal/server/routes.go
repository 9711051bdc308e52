package server

import (
	"net/http"

	"github.com/athebyme/text-similarity/pkg/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(server *Server) http.Handler {
	mux := http.NewServeMux()

	legacyFault := server.faultHandler(http.StatusOK)
	apiFault := server.faultHandler(http.StatusInternalServerError)

	handle := func(pattern string, onFault middleware.FaultHandler, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.PrometheusMiddleware(middleware.Recover(onFault, h)))
	}

	// POST /predict - plain text score, exception object on any failure
	handle("POST /predict", legacyFault, server.HandlePredict)

	// API version 1
	handle("POST /api/v1/similarity", apiFault, server.HandleSimilarity)
	handle("GET /api/v1/similarity", apiFault, server.HandleSimilarityQuery)
	handle("GET /api/v1/metrics", apiFault, server.HandleMetricsList)

	handle("GET /api/v1/stats", apiFault, server.HandleStats)
	handle("POST /api/v1/stats/clear", apiFault, server.HandleClearStats)

	handle("GET /health", apiFault, server.HandleHealth)

	return middleware.RequestID(mux)
}
