// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/photoaddr/photoaddr/utils/httputils"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"

// HTTPClient is the subset of http.Client used by NominatimGeocoder,
// substitutable in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NominatimGeocoder reverse-geocodes through the OpenStreetMap Nominatim
// API. Free of charge, no API key, but rate-limited to roughly one request
// per second under the fair-use policy, which also requires an identifying
// User-Agent header.
type NominatimGeocoder struct {
	client    HTTPClient
	baseURL   string
	userAgent string
}

// NominatimOption customizes a NominatimGeocoder.
type NominatimOption func(*NominatimGeocoder)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client HTTPClient) NominatimOption {
	return func(n *NominatimGeocoder) {
		n.client = client
	}
}

// WithBaseURL points the geocoder at a different endpoint, e.g. a
// self-hosted Nominatim instance or a test server.
func WithBaseURL(baseURL string) NominatimOption {
	return func(n *NominatimGeocoder) {
		n.baseURL = baseURL
	}
}

// WithHTTPTrace dumps every request and response to w. Useful to debug
// what Nominatim actually answers for a coordinate.
func WithHTTPTrace(w io.Writer) NominatimOption {
	return func(n *NominatimGeocoder) {
		n.client = &http.Client{
			Timeout: 10 * time.Second,
			Transport: &httputils.LoggingRoundTripper{
				Writer:   w,
				DumpBody: true,
				Transport: &httputils.ThrottlingRoundTripper{
					Transport:   http.DefaultTransport,
					MinInterval: time.Second,
				},
			},
		}
	}
}

// NewNominatimGeocoder creates a Nominatim reverse geocoder against the
// public OpenStreetMap endpoint.
func NewNominatimGeocoder(opts ...NominatimOption) *NominatimGeocoder {
	n := &NominatimGeocoder{
		client: &http.Client{
			Timeout: 10 * time.Second,
			// the fair-use policy caps clients at one request per second
			Transport: &httputils.ThrottlingRoundTripper{
				Transport:   http.DefaultTransport,
				MinInterval: time.Second,
			},
		},
		baseURL:   nominatimBaseURL,
		userAgent: "photoaddr/1.0 (+https://github.com/photoaddr/photoaddr)",
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// nominatimResponse is the part of the reverse-geocoding reply we consume.
// Nominatim reports "nothing there" as a 200 with an error field.
type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// ReverseGeocode returns the display name for the coordinates, or
// ErrNoAddress when Nominatim has nothing at that location.
func (n *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	reqURL, err := url.Parse(n.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing nominatim base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", fmt.Sprintf("%.6f", lat))
	query.Set("lon", fmt.Sprintf("%.6f", lng))
	query.Set("format", "json")
	query.Set("addressdetails", "1")
	query.Set("accept-language", "en")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating nominatim request: %w", err)
	}

	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, string(body))
	}

	var nr nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return "", fmt.Errorf("decoding nominatim response: %w", err)
	}

	if nr.Error != "" || nr.DisplayName == "" {
		return "", ErrNoAddress
	}

	return nr.DisplayName, nil
}
