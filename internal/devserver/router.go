// Package devserver is a stand-in for the beauty backend. It serves the REST
// contract the client speaks on top of a SQLite store so the client can be
// run and tested without the real service.
package devserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/julianstephens/bliss/internal/storage"
	"github.com/julianstephens/bliss/internal/validation"
)

// Handler holds the dependencies shared by every endpoint
type Handler struct {
	store     storage.Provider
	weather   *WeatherProxy
	validator *validation.Validator
}

// NewHandler creates a handler. A nil weather proxy makes the weather
// endpoint fail with 503.
func NewHandler(store storage.Provider, weather *WeatherProxy) *Handler {
	return &Handler{
		store:     store,
		weather:   weather,
		validator: validation.New(),
	}
}

// NewRouter mounts every endpoint under /api
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger())

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/routine/{userId}", h.ListRoutines).Methods("GET")
	api.HandleFunc("/routine/{userId}", h.CreateRoutine).Methods("POST")
	api.HandleFunc("/routine/{userId}/{id}", h.UpdateRoutine).Methods("PUT")
	api.HandleFunc("/routine/{userId}/{id}", h.DeleteRoutine).Methods("DELETE")
	api.HandleFunc("/routineSuggestions/suggestions", h.Suggestions).Methods("POST")

	api.HandleFunc("/tracker/{userId}", h.ListTracker).Methods("GET")
	api.HandleFunc("/tracker/{userId}", h.CreateTracker).Methods("POST")
	api.HandleFunc("/tracker/{userId}/{id}", h.UpdateTracker).Methods("PUT")
	api.HandleFunc("/tracker/{userId}/{id}", h.DeleteTracker).Methods("DELETE")
	api.HandleFunc("/beautyTips/{userId}", h.BeautyTips).Methods("POST")

	api.HandleFunc("/tryon", h.TryOn).Methods("POST")
	api.HandleFunc("/weather/by-coords", h.Weather).Methods("GET")

	api.HandleFunc("/health", h.Health).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
