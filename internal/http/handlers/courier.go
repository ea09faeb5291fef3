package handlers

import (
	"math"
	"net/http"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// CourierHandler serves courier device reports.
type CourierHandler struct {
	locator CourierLocator
	logger  logx.Logger
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(logger logx.Logger, locator CourierLocator) *CourierHandler {
	return &CourierHandler{locator: locator, logger: loggerOrNop(logger)}
}

// Register handles POST /couriers.
func (h *CourierHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCourierRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !validPosition(positionRequest{Lat: req.Lat, Lon: req.Lon}) {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid position")
		return
	}
	ctx, cancel := withDirectoryTimeout(r.Context())
	defer cancel()

	c := domain.Courier{ID: req.ID, Score: req.Score, Position: domain.GeoPoint{Lat: req.Lat, Lon: req.Lon}}
	if err := h.locator.Register(ctx, c); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	h.logger.Info("courier registered", logx.String("courier_id", c.ID), logx.String("req_id", reqID(r.Context())))
	w.Header().Set("Location", "/couriers/"+c.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, courierResponse{ID: c.ID, Score: c.Score, Lat: c.Position.Lat, Lon: c.Position.Lon})
}

// Position handles PUT /couriers/{id}/position.
func (h *CourierHandler) Position(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req positionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !validPosition(req) {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid position")
		return
	}
	ctx, cancel := withDirectoryTimeout(r.Context())
	defer cancel()

	if err := h.locator.Move(ctx, id, domain.GeoPoint{Lat: req.Lat, Lon: req.Lon}); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validPosition(p positionRequest) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
