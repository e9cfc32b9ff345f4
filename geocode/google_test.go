// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

// fakeGoogleClient implements GoogleAPIClient with a canned response.
type fakeGoogleClient struct {
	results []maps.GeocodingResult
	err     error
	lastReq *maps.GeocodingRequest
	calls   int
}

func (f *fakeGoogleClient) ReverseGeocode(
	_ context.Context, r *maps.GeocodingRequest,
) ([]maps.GeocodingResult, error) {
	f.calls++
	f.lastReq = r

	return f.results, f.err
}

func TestGoogleMapsGeocoder_ReverseGeocode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the primary formatted address", func(t *testing.T) {
		client := &fakeGoogleClient{
			results: []maps.GeocodingResult{
				{FormattedAddress: "1 Infinite Loop, Cupertino, CA"},
				{FormattedAddress: "Cupertino, CA"},
			},
		}
		g := NewGoogleMapsGeocoderWithClient(client)

		addr, err := g.ReverseGeocode(ctx, 37.6154, -122.4194)
		require.NoError(t, err)
		assert.Equal(t, "1 Infinite Loop, Cupertino, CA", addr)

		require.NotNil(t, client.lastReq)
		require.NotNil(t, client.lastReq.LatLng)
		assert.InDelta(t, 37.6154, client.lastReq.LatLng.Lat, 1e-9)
		assert.InDelta(t, -122.4194, client.lastReq.LatLng.Lng, 1e-9)
	})

	t.Run("empty result set is ErrNoAddress", func(t *testing.T) {
		g := NewGoogleMapsGeocoderWithClient(&fakeGoogleClient{})

		_, err := g.ReverseGeocode(ctx, 0, 0)
		require.ErrorIs(t, err, ErrNoAddress)
	})

	t.Run("API errors are wrapped and surfaced", func(t *testing.T) {
		g := NewGoogleMapsGeocoderWithClient(&fakeGoogleClient{err: assert.AnError})

		_, err := g.ReverseGeocode(ctx, 37.6154, -122.4194)
		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
	})
}
