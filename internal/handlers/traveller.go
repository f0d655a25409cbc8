package handlers

import (
	"errors"
	"net/http"

	"zonewatch/internal/services"
	"zonewatch/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TravellerHandler struct {
	tracker *services.TrackerService
	logr    *zap.Logger
}

func NewTravellerHandler(tracker *services.TrackerService, logr *zap.Logger) *TravellerHandler {
	return &TravellerHandler{tracker: tracker, logr: logr}
}

// ListTravellers serves the activity table: ?search=&zone=&status=
func (h *TravellerHandler) ListTravellers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.tracker.Travellers(services.TravellerQuery{
		Search:   q.Get("search"),
		Zones:    utils.ParseQueryList(q, "zone"),
		Statuses: utils.ParseQueryList(q, "status"),
	}))
}

func (h *TravellerHandler) GetTraveller(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.tracker.Traveller(id)
	if errors.Is(err, services.ErrTravellerNotFound) {
		writeError(w, http.StatusNotFound, "traveller not found")
		return
	}
	if err != nil {
		h.logr.Error("failed to fetch traveller", zap.Error(err), zap.String("id", id))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, e)
}
