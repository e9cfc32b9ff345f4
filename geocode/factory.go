// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"errors"
	"fmt"
)

// Provider names a reverse-geocoding backend.
type Provider string

const (
	// ProviderGoogle is the Google Maps Geocoding API (requires an API key).
	ProviderGoogle Provider = "google"
	// ProviderNominatim is the OpenStreetMap Nominatim API (no key needed).
	ProviderNominatim Provider = "nominatim"
)

// New creates the reverse geocoder for the named provider.
func New(provider Provider, apiKey string) (Geocoder, error) {
	switch provider {
	case ProviderGoogle:
		if apiKey == "" {
			return nil, errors.New("an API key is required for the google provider")
		}

		return NewGoogleMapsGeocoder(apiKey)
	case ProviderNominatim:
		return NewNominatimGeocoder(), nil
	default:
		return nil, fmt.Errorf("unsupported geocoding provider: %q", provider)
	}
}
