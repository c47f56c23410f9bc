package api

import (
	"net/http"
	"path-route-service/internal/api/handlers"
	"path-route-service/internal/engine"
	"path-route-service/internal/ports"
)

// Dependencies of the HTTP shell.
type Deps struct {
	Loop *engine.Loop
	Repo ports.PathRepository
	Feed *handlers.EventFeed
	// Receives results posted to /bridge; usually Loop.Sink().
	Sink ports.RouteResultSink
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	paths := &handlers.PathHandler{Loop: d.Loop}
	draft := &handlers.DraftHandler{Repo: d.Repo}
	bridge := &handlers.BridgeHandler{Sink: d.Sink}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("GET /entries", paths.List)
	mux.HandleFunc("POST /entries", paths.Create)
	mux.HandleFunc("DELETE /entries/{id}", paths.Delete)
	mux.HandleFunc("POST /entries/{id}/query", paths.Query)
	mux.HandleFunc("POST /entries/import", paths.Import)
	mux.HandleFunc("GET /entries/export", paths.Export)
	mux.HandleFunc("GET /totals", paths.Totals)

	mux.HandleFunc("GET /events", d.Feed.List)

	mux.HandleFunc("GET /draft", draft.Get)
	mux.HandleFunc("PUT /draft", draft.Put)

	mux.HandleFunc("POST /bridge/leg", bridge.Leg)
	mux.HandleFunc("POST /bridge/total", bridge.Total)

	return loggingMiddleware(mux)
}
