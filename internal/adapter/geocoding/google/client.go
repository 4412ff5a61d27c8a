// Package google backs the location picker with the Google Maps web
// services so the API key never reaches the browser.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/PartyAppOfficial/Partyapp/internal/geo"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// Autocomplete suggestions are biased towards the default map area.
const biasRadiusMeters = 50000

type Options struct {
	APIKey   string
	Language string
	// BaseURL overrides the Google endpoint.
	BaseURL string
}

type Client struct {
	maps     *maps.Client
	language string
	logger   *logger.Logger
}

func NewClient(opts Options, log *logger.Logger) (*Client, error) {
	clientOpts := []maps.ClientOption{maps.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	c, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}
	return &Client{maps: c, language: opts.Language, logger: log.Named("GoogleMaps")}, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (*geo.GeocodeResult, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address, Language: c.language})
	return c.first("Geocode", results, err)
}

func (c *Client) ReverseGeocode(ctx context.Context, at geo.LatLng) (*geo.GeocodeResult, error) {
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: at.Lat, Lng: at.Lng},
		Language: c.language,
	})
	return c.first("ReverseGeocode", results, err)
}

func (c *Client) first(op string, results []maps.GeocodingResult, err error) (*geo.GeocodeResult, error) {
	if err != nil {
		if isZeroResults(err) {
			return nil, geo.ErrNoResults
		}
		c.logger.Warn("Google Maps request failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(results) == 0 {
		return nil, geo.ErrNoResults
	}
	r := results[0]
	return &geo.GeocodeResult{
		FormattedAddress: r.FormattedAddress,
		Location:         geo.LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
	}, nil
}

func (c *Client) Autocomplete(ctx context.Context, input string) ([]geo.Prediction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []geo.Prediction{}, nil
	}
	resp, err := c.maps.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: c.language,
		Location: &maps.LatLng{Lat: geo.DefaultLat, Lng: geo.DefaultLng},
		Radius:   biasRadiusMeters,
	})
	if err != nil {
		if isZeroResults(err) {
			return []geo.Prediction{}, nil
		}
		c.logger.Warn("Google Maps request failed", zap.String("op", "Autocomplete"), zap.Error(err))
		return nil, fmt.Errorf("Autocomplete: %w", err)
	}
	out := make([]geo.Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, geo.Prediction{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

// PlaceDetails asks only for the fields the picker uses. A place without
// geometry comes back with a nil Location.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*geo.Place, error) {
	res, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: c.language,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskPlaceID,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
		},
	})
	if err != nil {
		c.logger.Warn("Google Maps request failed", zap.String("op", "PlaceDetails"), zap.Error(err))
		return nil, fmt.Errorf("PlaceDetails: %w", err)
	}
	place := &geo.Place{PlaceID: res.PlaceID, FormattedAddress: res.FormattedAddress}
	if loc := res.Geometry.Location; loc.Lat != 0 || loc.Lng != 0 {
		place.Location = &geo.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	}
	return place, nil
}

// isZeroResults reports the provider's ZERO_RESULTS status, which the
// maps client surfaces as a plain error.
func isZeroResults(err error) bool {
	return strings.Contains(err.Error(), "ZERO_RESULTS")
}
