package handlers

import (
	"net/http"

	"zonewatch/internal/models"
	"zonewatch/internal/services"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	tracker *services.TrackerService
	logr    *zap.Logger
}

func NewDashboardHandler(tracker *services.TrackerService, logr *zap.Logger) *DashboardHandler {
	return &DashboardHandler{tracker: tracker, logr: logr}
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.tracker.Dashboard(r.Context())
	if err != nil {
		h.logr.Error("failed to build dashboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Refresh regenerates the batch on demand and returns the new dashboard.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	batch := h.tracker.Refresh(r.Context(), models.TriggerManual)
	h.logr.Info("manual refresh", zap.String("batch_id", batch.ID))

	view, err := h.tracker.DashboardFor(r.Context(), batch)
	if err != nil {
		h.logr.Error("failed to build dashboard", zap.Error(err), zap.String("batch_id", batch.ID))
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Summary())
}

func (h *DashboardHandler) GetZoneDistribution(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": h.tracker.ZoneDistribution()})
}

func (h *DashboardHandler) GetStatusDistribution(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": h.tracker.StatusDistribution()})
}

func (h *DashboardHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": h.tracker.Markers()})
}
