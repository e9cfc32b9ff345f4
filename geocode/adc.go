// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// adcKeyDisplayName is the display name of the API key looked up in the
// caller's GCP project when no key is supplied explicitly.
const adcKeyDisplayName = "PhotoAddr Geocoding Key"

// ResolveGoogleAPIKey returns the Google Maps API key to use: the explicit
// value when given, then the GOOGLE_MAPS_API_KEY environment variable, then
// a lookup in the GCP project reachable through Application Default
// Credentials. The key is only ever read, never created or stored.
func ResolveGoogleAPIKey(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		return key, nil
	}

	log.Print("GOOGLE_MAPS_API_KEY is not set, attempting to retrieve the key via ADC")

	return apiKeyFromADC(ctx)
}

func apiKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	if creds.ProjectID == "" {
		return "", errors.New("default credentials carry no project ID")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", creds.ProjectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != adcKeyDisplayName {
			continue
		}

		// ListKeys redacts the secret; it must be fetched separately.
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.GetKeyString() == "" {
			return "", fmt.Errorf("key %q found but its key string is empty", adcKeyDisplayName)
		}

		return resp.GetKeyString(), nil
	}

	return "", fmt.Errorf("key %q not found in project %s", adcKeyDisplayName, creds.ProjectID)
}
