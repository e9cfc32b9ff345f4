// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GoogleAPIClient is the slice of the Google Maps client this package needs.
// It exists so tests can substitute a fake without network access.
type GoogleAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleMapsGeocoder reverse-geocodes through the Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	client GoogleAPIClient
}

// NewGoogleMapsGeocoder creates a geocoder backed by the official Google
// Maps client, authenticated with the given API key.
func NewGoogleMapsGeocoder(apiKey string) (*GoogleMapsGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Google Maps client: %w", err)
	}

	return &GoogleMapsGeocoder{client: client}, nil
}

// NewGoogleMapsGeocoderWithClient wires an explicit API client. Used by tests.
func NewGoogleMapsGeocoderWithClient(client GoogleAPIClient) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{client: client}
}

// ReverseGeocode returns the primary formatted address for the coordinates,
// or ErrNoAddress when the API responds with an empty result set.
func (g *GoogleMapsGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	}

	results, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return "", fmt.Errorf("google maps reverse geocode: %w", err)
	}

	if len(results) == 0 {
		return "", ErrNoAddress
	}

	return results[0].FormattedAddress, nil
}
