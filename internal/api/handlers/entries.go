package handlers

import (
	"errors"
	"net/http"
	"path-route-service/internal/adapters/pathfile"
	"path-route-service/internal/api/dto"
	"path-route-service/internal/domain"
	"path-route-service/internal/engine"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// PathHandler exposes the path list. Every engine access is made on the loop.
type PathHandler struct {
	Loop *engine.Loop
}

// onLoop runs fn on the engine loop and reports a 503 when the loop is gone.
func onLoop(w http.ResponseWriter, r *http.Request, loop *engine.Loop, fn func(*engine.Engine)) bool {
	if err := loop.Do(r.Context(), fn); err != nil {
		log.WithField("path", r.URL.Path).WithError(err).Warn("engine unavailable")
		writeError(w, r, http.StatusServiceUnavailable, "engine unavailable")
		return false
	}
	return true
}

func (h *PathHandler) List(w http.ResponseWriter, r *http.Request) {
	var res dto.ListEntriesResponse
	ok := onLoop(w, r, h.Loop, func(e *engine.Engine) {
		sep := e.Separator()
		res.Entries = lo.Map(e.Entries(), func(p domain.PathEntry, _ int) dto.EntryResponse {
			return toEntryResponse(p, sep)
		})
	})
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Create adds a path. Line breaks in the submitted text become separators;
// with query set the new entry is submitted right away.
func (h *PathHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		res  dto.EntryResponse
		id   domain.EntryID
		err  error
		have bool
	)
	ok := onLoop(w, r, h.Loop, func(e *engine.Engine) {
		id, err = e.AddDraft(r.Context(), req.Path, req.Query)
		if p, found := e.Entry(id); found {
			res, have = toEntryResponse(p, e.Separator()), true
		}
	})
	if !ok {
		return
	}

	if errors.Is(err, engine.ErrEmptyInput) && !have {
		writeError(w, r, http.StatusBadRequest, "path is required")
		return
	}
	if errors.Is(err, engine.ErrEmptyInput) {
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
			"error": "path needs at least two waypoints to be queried",
			"entry": res,
		})
		return
	}
	if err != nil {
		log.WithField("entry", id).WithError(err).Error("create path failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, res)
}

func (h *PathHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		writeError(w, r, http.StatusBadRequest, "invalid entry id")
		return
	}

	var removed bool
	if !onLoop(w, r, h.Loop, func(e *engine.Engine) { removed = e.Remove(domain.EntryID(id)) }) {
		return
	}
	if !removed {
		writeError(w, r, http.StatusNotFound, "entry not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Query submits the entry to the route provider. Results arrive asynchronously.
func (h *PathHandler) Query(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		writeError(w, r, http.StatusBadRequest, "invalid entry id")
		return
	}

	var (
		res dto.QueryResponse
		err error
	)
	ok := onLoop(w, r, h.Loop, func(e *engine.Engine) {
		var token domain.Token
		token, err = e.Submit(r.Context(), domain.EntryID(id))
		if err != nil {
			return
		}
		p, _ := e.Entry(domain.EntryID(id))
		res = dto.QueryResponse{Token: string(token), Entry: toEntryResponse(p, e.Separator())}
	})
	if !ok {
		return
	}

	switch {
	case errors.Is(err, engine.ErrEntryNotFound):
		writeError(w, r, http.StatusNotFound, "entry not found")
	case errors.Is(err, engine.ErrEmptyInput):
		writeError(w, r, http.StatusUnprocessableEntity, "path needs at least two waypoints to be queried")
	case err != nil:
		log.WithField("entry", id).WithError(err).Error("submit path failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, r, http.StatusAccepted, res)
	}
}

// Import replaces the whole list with the text body, one path per line.
func (h *PathHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	paths, err := pathfile.ReadPaths(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid path list")
		return
	}

	var ids []domain.EntryID
	if !onLoop(w, r, h.Loop, func(e *engine.Engine) { ids = e.Import(paths) }) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ImportResponse{
		Imported: len(ids),
		IDs:      lo.Map(ids, func(id domain.EntryID, _ int) int64 { return int64(id) }),
	})
}

// Export writes the raw paths, one per CRLF-terminated line.
func (h *PathHandler) Export(w http.ResponseWriter, r *http.Request) {
	var paths []string
	if !onLoop(w, r, h.Loop, func(e *engine.Engine) { paths = e.Export() }) {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="paths.txt"`)
	w.WriteHeader(http.StatusOK)
	if err := pathfile.WritePaths(w, paths); err != nil {
		log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).WithError(err).Warn("export write failed")
	}
}

func (h *PathHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var res dto.TotalsResponse
	ok := onLoop(w, r, h.Loop, func(e *engine.Engine) {
		t := e.Totals()
		res = dto.TotalsResponse{
			DistanceMeters:  t.DistanceMeters,
			DurationSeconds: t.DurationSeconds,
			Distance:        domain.FormatDistance(t.DistanceMeters),
			Duration:        domain.FormatDuration(t.DurationSeconds),
			Summary:         t.Summary(),
			InFlight:        e.InFlight(),
		}
	})
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toEntryResponse(p domain.PathEntry, separator string) dto.EntryResponse {
	return dto.EntryResponse{
		ID:        int64(p.ID),
		Path:      p.Raw,
		Waypoints: p.Waypoints(separator),
		Status:    p.Status.String(),
		Legs: lo.Map(p.Legs, func(l domain.Leg, _ int) dto.LegResponse {
			return dto.LegResponse{
				Origin:          l.Origin,
				Destination:     l.Destination,
				Label:           l.Label(),
				Success:         l.Success,
				DistanceMeters:  l.DistanceMeters,
				DurationSeconds: l.DurationSeconds,
				Distance:        l.DistanceDisplay(),
				Duration:        l.DurationDisplay(),
			}
		}),
		TotalDistanceMeters:  p.TotalDistanceMeters,
		TotalDurationSeconds: p.TotalDurationSeconds,
		Distance:             p.DistanceDisplay(),
		Duration:             p.DurationDisplay(),
	}
}
