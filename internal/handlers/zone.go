package handlers

import (
	"errors"
	"net/http"

	"zonewatch/internal/models"
	"zonewatch/internal/services"
	"zonewatch/internal/utils"

	"go.uber.org/zap"
)

type ZoneHandler struct {
	service *services.ZoneService
	logr    *zap.Logger
}

func NewZoneHandler(svc *services.ZoneService, logr *zap.Logger) *ZoneHandler {
	return &ZoneHandler{service: svc, logr: logr}
}

func (h *ZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list zones", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list zones")
		return
	}
	writeJSON(w, http.StatusOK, models.ZonesResponse{Data: list, Count: len(list)})
}

// Classify answers which zone, if any, contains ?lat=&lng=.
func (h *ZoneHandler) Classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := utils.ParseCoordinate(q, "lat", 90)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lng, err := utils.ParseCoordinate(q, "lng", 180)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	z, err := h.service.Classify(r.Context(), lat, lng)
	if errors.Is(err, services.ErrZoneNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logr.Error("failed to classify location", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, z)
}
