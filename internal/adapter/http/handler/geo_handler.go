package handler

import (
	"context"
	"net/http"

	"github.com/PartyAppOfficial/Partyapp/internal/geo"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.uber.org/zap"
)

type MapAdapter interface {
	Init(ctx context.Context) geo.Selection
	Reset(ctx context.Context, s *geo.Selection)
	MoveMarker(ctx context.Context, s *geo.Selection, lat, lng float64)
	SelectPlace(ctx context.Context, s *geo.Selection, p geo.Place, typed string)
	EnterAddress(ctx context.Context, s *geo.Selection, text string)
}

// GeoHandler exposes the location picker. Every call takes the current
// selection and returns the updated one; the server keeps no map state.
type GeoHandler struct {
	maps   MapAdapter
	places geo.PlaceFinder
	logger *logger.Logger
}

func NewGeoHandler(maps MapAdapter, places geo.PlaceFinder, log *logger.Logger) *GeoHandler {
	return &GeoHandler{maps: maps, places: places, logger: log.Named("GeoHTTPHandler")}
}

type moveRequest struct {
	Selection geo.Selection `json:"selection"`
	Lat       float64       `json:"lat"`
	Lng       float64       `json:"lng"`
}

type placeRequest struct {
	Selection geo.Selection `json:"selection"`
	Place     geo.Place     `json:"place"`
	Typed     string        `json:"typed"`
}

type addressRequest struct {
	Selection geo.Selection `json:"selection"`
	Address   string        `json:"address"`
}

func (h *GeoHandler) Config(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, geo.PageConfig())
}

func (h *GeoHandler) Init(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.maps.Init(r.Context()))
}

func (h *GeoHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var s geo.Selection
	h.maps.Reset(r.Context(), &s)
	writeJSON(w, http.StatusOK, s)
}

func (h *GeoHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		writeError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}
	h.maps.MoveMarker(r.Context(), &req.Selection, req.Lat, req.Lng)
	writeJSON(w, http.StatusOK, req.Selection)
}

// Place applies an autocomplete pick. A pick that only carries a place id
// is completed through the place details lookup first.
func (h *GeoHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	place := req.Place
	if place.Location == nil && place.PlaceID != "" && h.places != nil {
		details, err := h.places.PlaceDetails(r.Context(), place.PlaceID)
		if err != nil {
			h.logger.Warn("Place details lookup failed", zap.String("placeID", place.PlaceID), zap.Error(err))
		} else {
			place = *details
		}
	}
	h.maps.SelectPlace(r.Context(), &req.Selection, place, req.Typed)
	writeJSON(w, http.StatusOK, req.Selection)
}

func (h *GeoHandler) Address(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.maps.EnterAddress(r.Context(), &req.Selection, req.Address)
	writeJSON(w, http.StatusOK, req.Selection)
}

func (h *GeoHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	if h.places == nil {
		writeJSON(w, http.StatusOK, []geo.Prediction{})
		return
	}
	predictions, err := h.places.Autocomplete(r.Context(), r.URL.Query().Get("input"))
	if err != nil {
		h.logger.Warn("Autocomplete failed", zap.Error(err))
		writeJSON(w, http.StatusOK, []geo.Prediction{})
		return
	}
	writeJSON(w, http.StatusOK, predictions)
}
