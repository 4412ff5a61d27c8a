// Package geo keeps the map marker, the address text and the hidden
// coordinate fields of the registration form consistent with each other.
package geo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"go.uber.org/zap"
)

// Mexico City.
const (
	DefaultLat = 19.432608
	DefaultLng = -99.133209
)

const (
	DefaultZoom = 14
	FocusZoom   = 16

	// AddressDebounceMs is how long the page waits after the address field
	// loses focus before asking for a forward geocode.
	AddressDebounceMs = 250
)

var ErrNoResults = errors.New("geocode returned no results")

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type GeocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Location         LatLng `json:"location"`
}

// Place is an autocomplete pick. Location is nil when the provider returned
// no geometry for it.
type Place struct {
	PlaceID          string  `json:"placeId,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Location         *LatLng `json:"location,omitempty"`
}

type Prediction struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
	ReverseGeocode(ctx context.Context, at LatLng) (*GeocodeResult, error)
}

// PlaceFinder backs the address autocomplete.
type PlaceFinder interface {
	Autocomplete(ctx context.Context, input string) ([]Prediction, error)
	PlaceDetails(ctx context.Context, placeID string) (*Place, error)
}

// Selection is the map state of one form. Latitude and Longitude are the
// hidden form fields and always hold Lat and Lng with six decimals.
type Selection struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Zoom             int     `json:"zoom"`
	Address          string  `json:"address"`
	FormattedAddress string  `json:"formatted_address"`
	Latitude         string  `json:"latitude"`
	Longitude        string  `json:"longitude"`
}

func (s *Selection) setPosition(lat, lng float64) {
	s.Lat, s.Lng = lat, lng
	s.Latitude = FormatCoord(lat)
	s.Longitude = FormatCoord(lng)
}

// FormatCoord renders a coordinate the way the hidden fields carry it.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Config is what the page needs to set up the map.
type Config struct {
	Default           LatLng `json:"default"`
	DefaultZoom       int    `json:"defaultZoom"`
	FocusZoom         int    `json:"focusZoom"`
	AddressDebounceMs int    `json:"addressDebounceMs"`
}

func PageConfig() Config {
	return Config{
		Default:           LatLng{Lat: DefaultLat, Lng: DefaultLng},
		DefaultZoom:       DefaultZoom,
		FocusZoom:         FocusZoom,
		AddressDebounceMs: AddressDebounceMs,
	}
}

// Adapter applies map events to a Selection. Geocoding failures are logged
// and leave the selection as it was.
type Adapter struct {
	geocoder Geocoder
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewAdapter(geocoder Geocoder, mm *metrics.MetricsManager, log *logger.Logger) *Adapter {
	return &Adapter{geocoder: geocoder, metrics: mm, logger: log.Named("GeoAdapter")}
}

// Init places the marker at the default location and fills the address
// from a reverse geocode.
func (a *Adapter) Init(ctx context.Context) Selection {
	s := Selection{Zoom: DefaultZoom}
	s.setPosition(DefaultLat, DefaultLng)
	a.reverse(ctx, &s)
	return s
}

// Reset is Init for an existing form.
func (a *Adapter) Reset(ctx context.Context, s *Selection) {
	*s = a.Init(ctx)
}

// MoveMarker handles a marker drag or a map click.
func (a *Adapter) MoveMarker(ctx context.Context, s *Selection, lat, lng float64) {
	s.setPosition(lat, lng)
	a.reverse(ctx, s)
}

// SelectPlace handles an autocomplete pick. typed is the text in the
// address field at that moment.
func (a *Adapter) SelectPlace(ctx context.Context, s *Selection, p Place, typed string) {
	if typed != "" {
		s.Address = typed
	}
	if p.Location == nil {
		a.forward(ctx, s, s.Address)
		return
	}
	s.setPosition(p.Location.Lat, p.Location.Lng)
	s.Zoom = FocusZoom
	if p.FormattedAddress != "" {
		s.FormattedAddress = p.FormattedAddress
	} else {
		s.FormattedAddress = s.Address
	}
}

// EnterAddress handles a manual address entry once the field loses focus.
// Nothing is geocoded when the text is empty or already geocoded.
func (a *Adapter) EnterAddress(ctx context.Context, s *Selection, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.Address = text
	if text == s.FormattedAddress {
		return
	}
	a.forward(ctx, s, text)
}

func (a *Adapter) forward(ctx context.Context, s *Selection, address string) {
	if a.geocoder == nil || strings.TrimSpace(address) == "" {
		return
	}
	res, err := a.geocoder.Geocode(ctx, address)
	if err == nil && res == nil {
		err = ErrNoResults
	}
	if err != nil {
		a.logger.Warn("Geocode was not successful", zap.String("address", address), zap.Error(err))
		a.count("forward", "error")
		return
	}
	a.count("forward", "success")
	s.setPosition(res.Location.Lat, res.Location.Lng)
	s.Zoom = FocusZoom
	if res.FormattedAddress != "" {
		s.FormattedAddress = res.FormattedAddress
	} else {
		s.FormattedAddress = address
	}
}

func (a *Adapter) reverse(ctx context.Context, s *Selection) {
	if a.geocoder == nil {
		return
	}
	res, err := a.geocoder.ReverseGeocode(ctx, LatLng{Lat: s.Lat, Lng: s.Lng})
	if err == nil && res == nil {
		err = ErrNoResults
	}
	if err != nil {
		a.logger.Warn("Reverse geocode failed", zap.Float64("lat", s.Lat), zap.Float64("lng", s.Lng), zap.Error(err))
		a.count("reverse", "error")
		return
	}
	a.count("reverse", "success")
	s.Address = res.FormattedAddress
	s.FormattedAddress = res.FormattedAddress
}

func (a *Adapter) count(direction, result string) {
	if a.metrics != nil {
		a.metrics.GeocodeTotal.WithLabelValues(direction, result).Inc()
	}
}
