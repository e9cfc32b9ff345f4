// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/photoaddr/photoaddr/exif"
	"github.com/photoaddr/photoaddr/geocode"
	"github.com/photoaddr/photoaddr/results"
	"github.com/spf13/cobra"
)

var geocodeOptions = struct {
	input      string
	output     string
	apiKey     string
	provider   string
	dbPath     string
	noStore    bool
	noProgress bool
	traceHTTP  bool
}{}

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve a CSV of EXIF GPS coordinates into addresses",
	Long: `
Reads a CSV with SourceFile, GPSLatitude and GPSLongitude columns (as
produced by "exiftool -csv -gps:all"), reverse-geocodes every row and
writes a CSV with filename, address, latitude and longitude columns in
the same order. Each run is also recorded in a local DuckDB database so
it can be browsed later with "photoaddr serve".

The Google provider needs an API key, taken from --api-key, the
GOOGLE_MAPS_API_KEY environment variable, or Application Default
Credentials, in that order. Nominatim needs none.
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := exif.ReadRecords(geocodeOptions.input)
		if err != nil {
			return err
		}

		provider := geocode.Provider(geocodeOptions.provider)

		apiKey := geocodeOptions.apiKey
		if provider == geocode.ProviderGoogle {
			apiKey, err = geocode.ResolveGoogleAPIKey(ctx, apiKey)
			if err != nil {
				return fmt.Errorf("resolving Google Maps API key: %w", err)
			}
		}

		var geocoder geocode.Geocoder
		if provider == geocode.ProviderNominatim && geocodeOptions.traceHTTP {
			geocoder = geocode.NewNominatimGeocoder(geocode.WithHTTPTrace(os.Stderr))
		} else {
			geocoder, err = geocode.New(provider, apiKey)
			if err != nil {
				return err
			}
		}

		pipeline := exif.NewPipeline(geocoder)
		pipeline.NoProgress = geocodeOptions.noProgress

		resolved, runErr := pipeline.Run(ctx, records)

		// A canceled batch still writes what it resolved so far.
		if len(resolved) > 0 || runErr == nil {
			if err := exif.WriteResults(geocodeOptions.output, resolved); err != nil {
				return err
			}

			log.Printf("Results saved to %s", geocodeOptions.output)
		}

		if !geocodeOptions.noStore && len(resolved) > 0 {
			if err := storeRun(geocodeOptions.input, string(provider), resolved); err != nil {
				return fmt.Errorf("recording run: %w", err)
			}
		}

		return runErr
	},
}

// storeRun records a finished batch in the local results database.
func storeRun(inputFile, provider string, resolved []*exif.Result) error {
	if err := os.MkdirAll(geocodeOptions.dbPath, 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(geocodeOptions.dbPath, "photoaddr.duckdb"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo := results.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	runID, err := repo.SaveRun(filepath.Base(inputFile), provider, resolved)
	if err != nil {
		return err
	}

	log.Printf("Run recorded as #%d in %s", runID, geocodeOptions.dbPath)

	return nil
}

func init() {
	rootCmd.AddCommand(geocodeCmd)

	geocodeCmd.Flags().StringVarP(
		&geocodeOptions.input,
		"input", "i",
		"",
		"Input CSV file with SourceFile/GPSLatitude/GPSLongitude columns",
	)
	geocodeCmd.Flags().StringVarP(
		&geocodeOptions.output,
		"output", "o",
		"",
		"Output CSV file",
	)
	geocodeCmd.Flags().StringVarP(
		&geocodeOptions.apiKey,
		"api-key", "k",
		"",
		"Google Maps API key (google provider only)",
	)
	geocodeCmd.Flags().StringVar(
		&geocodeOptions.provider,
		"provider",
		string(geocode.ProviderGoogle),
		"Reverse-geocoding provider: google or nominatim",
	)
	geocodeCmd.Flags().StringVar(
		&geocodeOptions.dbPath,
		"db-path",
		"db",
		"Directory holding the local results database",
	)
	geocodeCmd.Flags().BoolVar(
		&geocodeOptions.noStore,
		"no-store",
		false,
		"Skip recording the run in the local results database",
	)
	geocodeCmd.Flags().BoolVar(
		&geocodeOptions.noProgress,
		"no-progress",
		false,
		"Disable the progress bar and per-photo log lines",
	)
	geocodeCmd.Flags().BoolVar(
		&geocodeOptions.traceHTTP,
		"trace-http",
		false,
		"Dump HTTP traffic to stderr (nominatim provider only)",
	)

	_ = geocodeCmd.MarkFlagRequired("input")
	_ = geocodeCmd.MarkFlagRequired("output")
}
