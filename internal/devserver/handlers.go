package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/julianstephens/bliss/internal/api"
	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/storage"
)

// maxBody bounds request bodies
const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}

// writeStoreError maps storage sentinels to status codes
func writeStoreError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Store failure", "action", action, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(constants.IdempotencyHeader))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Routines

func (h *Handler) ListRoutines(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	routines, err := h.store.ListRoutines(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err, "list routines")
		return
	}
	out := make([]api.RoutineRecord, 0, len(routines))
	for _, rt := range routines {
		out = append(out, api.RoutineFromModel(rt))
	}
	writeJSON(w, http.StatusOK, out)
}

// routineFromRequest decodes and validates a routine body. The user id in the
// path always wins over the body.
func (h *Handler) routineFromRequest(w http.ResponseWriter, r *http.Request) (models.RoutineEntry, bool) {
	var rec api.RoutineRecord
	if !decode(w, r, &rec) {
		return models.RoutineEntry{}, false
	}
	entry := rec.Model()
	entry.UserID = mux.Vars(r)["userId"]
	if id, ok := mux.Vars(r)["id"]; ok {
		entry.ID = id
	}

	result := h.validator.ValidateRoutine(entry)
	if result.HasConflicts() {
		writeError(w, http.StatusBadRequest, result.Err().Error())
		return models.RoutineEntry{}, false
	}
	return entry, true
}

func (h *Handler) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.routineFromRequest(w, r)
	if !ok {
		return
	}
	stored, err := h.store.CreateRoutine(r.Context(), entry, idempotencyKey(r))
	if err != nil {
		writeStoreError(w, err, "create routine")
		return
	}
	writeJSON(w, http.StatusCreated, api.RoutineFromModel(stored))
}

func (h *Handler) UpdateRoutine(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.routineFromRequest(w, r)
	if !ok {
		return
	}
	stored, err := h.store.UpdateRoutine(r.Context(), entry)
	if err != nil {
		writeStoreError(w, err, "update routine")
		return
	}
	writeJSON(w, http.StatusOK, api.RoutineFromModel(stored))
}

func (h *Handler) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.DeleteRoutine(r.Context(), vars["userId"], vars["id"]); err != nil {
		writeStoreError(w, err, "delete routine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req api.SuggestionRequest
	if !decode(w, r, &req) {
		return
	}
	tod, err := models.ParseTimeOfDay(req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.SuggestionResponse{Suggestions: SuggestionsFor(tod)})
}

// Tracker

func (h *Handler) ListTracker(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	entries, err := h.store.ListTracker(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err, "list tracker entries")
		return
	}
	out := make([]api.TrackerRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.TrackerFromModel(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// trackerFromRequest decodes a tracker body. Unlike the client, the server
// rejects progress it cannot parse.
func (h *Handler) trackerFromRequest(w http.ResponseWriter, r *http.Request) (models.TrackerEntry, bool) {
	var rec api.TrackerRecord
	if !decode(w, r, &rec) {
		return models.TrackerEntry{}, false
	}
	progress, err := api.ParseProgress(rec.Progress)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.TrackerEntry{}, false
	}
	entry := models.TrackerEntry{
		ID:         rec.ID,
		Mood:       rec.Mood,
		Condition:  rec.Condition,
		Products:   rec.Products,
		Progress:   progress,
		BeautyTips: rec.BeautyTips,
		CreatedAt:  rec.CreatedAt,
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		entry.ID = id
	}

	result := h.validator.ValidateTrackerEntry(entry)
	if result.HasConflicts() {
		writeError(w, http.StatusBadRequest, result.Err().Error())
		return models.TrackerEntry{}, false
	}
	return entry, true
}

func (h *Handler) CreateTracker(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.trackerFromRequest(w, r)
	if !ok {
		return
	}
	userID := mux.Vars(r)["userId"]
	stored, err := h.store.CreateTracker(r.Context(), userID, entry, idempotencyKey(r))
	if err != nil {
		writeStoreError(w, err, "create tracker entry")
		return
	}
	writeJSON(w, http.StatusCreated, api.TrackerFromModel(stored))
}

func (h *Handler) UpdateTracker(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.trackerFromRequest(w, r)
	if !ok {
		return
	}
	userID := mux.Vars(r)["userId"]
	stored, err := h.store.UpdateTracker(r.Context(), userID, entry)
	if err != nil {
		writeStoreError(w, err, "update tracker entry")
		return
	}
	writeJSON(w, http.StatusOK, api.TrackerFromModel(stored))
}

func (h *Handler) DeleteTracker(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.DeleteTracker(r.Context(), vars["userId"], vars["id"]); err != nil {
		writeStoreError(w, err, "delete tracker entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) BeautyTips(w http.ResponseWriter, r *http.Request) {
	var req api.TipRequest
	if !decode(w, r, &req) {
		return
	}
	progress, err := api.ParseProgress(req.Progress)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tips := TipsFor(models.TipRequest{
		Mood:      req.Mood,
		Condition: req.Condition,
		Products:  req.Products,
		Progress:  progress,
	})
	writeJSON(w, http.StatusOK, api.TipResponse{BeautyTips: tips})
}

// Try-on and weather

func (h *Handler) TryOn(w http.ResponseWriter, r *http.Request) {
	var req api.TryOnRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	writeJSON(w, http.StatusOK, api.TryOnResponse{Message: TryOnMessage})
}

func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	if h.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather is not configured")
		return
	}
	coords, err := parseCoords(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result := h.validator.ValidateCoordinates(coords)
	if result.HasConflicts() {
		writeError(w, http.StatusBadRequest, result.Err().Error())
		return
	}

	resp, err := h.weather.Current(r.Context(), coords)
	if err != nil {
		logger.Warn("Weather upstream failed", "lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		writeError(w, http.StatusBadGateway, "weather unavailable")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
