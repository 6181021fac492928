package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ObsServer exposes the operational HTTP surface: a liveness endpoint and
// the Prometheus metrics scrape target. It runs alongside the MCP
// transport on its own listener.
type ObsServer struct {
	srv *http.Server
}

// NewObsServer builds the observability listener for the given address.
func NewObsServer(addr string) *ObsServer {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return &ObsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  time.Minute,
		},
	}
}

// ListenAndServe blocks serving the observability endpoints.
func (o *ObsServer) ListenAndServe() error {
	return o.srv.ListenAndServe()
}

func healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":  "available",
		"name":    ServerName,
		"version": ServerVersion,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
