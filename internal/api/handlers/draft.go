package handlers

import (
	"net/http"
	"path-route-service/internal/api/dto"
	"path-route-service/internal/ports"
)

// Repository parameter holding the unsaved draft text.
const DraftParameter = "places"

// DraftHandler persists the text the user is composing between sessions.
type DraftHandler struct {
	Repo ports.PathRepository
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	places, err := h.Repo.GetParameter(r.Context(), DraftParameter)
	if err != nil {
		log.WithError(err).Error("load draft failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DraftResponse{Places: places})
}

func (h *DraftHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req dto.DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Repo.SetParameter(r.Context(), DraftParameter, req.Places); err != nil {
		log.WithError(err).Error("save draft failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DraftResponse{Places: req.Places})
}
