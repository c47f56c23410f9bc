package handlers

import (
	"net/http"
	"path-route-service/internal/api/dto"
	"path-route-service/internal/domain"
	"path-route-service/internal/ports"
	"strings"
)

// BridgeHandler accepts results pushed by an external route bridge and
// forwards them to the sink. Results for unknown tokens are accepted and
// dropped by the engine.
type BridgeHandler struct {
	Sink ports.RouteResultSink
}

func (h *BridgeHandler) Leg(w http.ResponseWriter, r *http.Request) {
	var req dto.LegResultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return
	}

	h.Sink.LegResult(domain.Token(req.Token), req.Origin, req.Destination, req.Success, req.DistanceMeters, req.DurationSeconds)
	w.WriteHeader(http.StatusAccepted)
}

func (h *BridgeHandler) Total(w http.ResponseWriter, r *http.Request) {
	var req dto.TotalResultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return
	}

	h.Sink.TotalResult(domain.Token(req.Token), req.Success, req.TotalDistanceMeters, req.TotalDurationSeconds)
	w.WriteHeader(http.StatusAccepted)
}
