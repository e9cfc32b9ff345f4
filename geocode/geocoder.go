// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
)

// Geocoder resolves a decimal-degree coordinate pair into a human-readable
// address via an external provider.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// ErrNoAddress is returned when the provider answers the request but has no
// address for the coordinates. Transport, auth and quota failures are
// reported as regular errors instead.
var ErrNoAddress = errors.New("no address found for coordinates")
