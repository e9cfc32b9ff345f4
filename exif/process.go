// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package exif

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/photoaddr/photoaddr/geocode"
	"github.com/photoaddr/photoaddr/spatial"
	"github.com/photoaddr/photoaddr/utils"
	"github.com/schollz/progressbar/v3"
)

// Address labels for rows that did not resolve to a provider address. The
// exact strings are part of the output contract: downstream spreadsheets
// filter on them.
const (
	addrNoCoordinates = "No coordinates available"
	addrNotFound      = "Address not found"
)

// Metrics counts per-outcome totals for a batch.
type Metrics struct {
	OK            int
	NoCoordinates int
	NotFound      int
	ParseErrors   int
	LookupErrors  int
}

func (m *Metrics) add(o Outcome) {
	switch o {
	case OutcomeOK:
		m.OK++
	case OutcomeNoCoordinates:
		m.NoCoordinates++
	case OutcomeNotFound:
		m.NotFound++
	case OutcomeParseError:
		m.ParseErrors++
	case OutcomeLookupError:
		m.LookupErrors++
	}
}

// Merge accumulates another batch's counters into m.
func (m *Metrics) Merge(other *Metrics) {
	m.OK += other.OK
	m.NoCoordinates += other.NoCoordinates
	m.NotFound += other.NotFound
	m.ParseErrors += other.ParseErrors
	m.LookupErrors += other.LookupErrors
}

// Total returns the number of records counted.
func (m *Metrics) Total() int {
	return m.OK + m.NoCoordinates + m.NotFound + m.ParseErrors + m.LookupErrors
}

// Pipeline resolves batches of Records into Results through a Geocoder.
type Pipeline struct {
	geocoder geocode.Geocoder

	// OnProgress, when set, is invoked once per processed record with the
	// number done so far and the batch total. Purely observational.
	OnProgress func(done, total int)

	// NoProgress suppresses the progress bar and per-record log lines.
	NoProgress bool

	// Metrics accumulates outcome counters across Run calls.
	Metrics Metrics
}

// NewPipeline creates a Pipeline over the given geocoder.
func NewPipeline(geocoder geocode.Geocoder) *Pipeline {
	return &Pipeline{geocoder: geocoder}
}

// resolveRecord turns one record into exactly one result. It never returns
// an error: parse and lookup failures are encoded into the result. A parse
// failure clears the coordinates; a lookup failure keeps them, since
// parsing had already succeeded.
func (p *Pipeline) resolveRecord(ctx context.Context, rec Record) *Result {
	if rec.GPSLatitude == "" || rec.GPSLongitude == "" {
		return &Result{
			Filename: rec.SourceFile,
			Address:  addrNoCoordinates,
			Outcome:  OutcomeNoCoordinates,
		}
	}

	lat, err := spatial.ParseDMS(rec.GPSLatitude)
	if err != nil {
		return &Result{
			Filename: rec.SourceFile,
			Address:  "Error: " + err.Error(),
			Outcome:  OutcomeParseError,
		}
	}

	lng, err := spatial.ParseDMS(rec.GPSLongitude)
	if err != nil {
		return &Result{
			Filename: rec.SourceFile,
			Address:  "Error: " + err.Error(),
			Outcome:  OutcomeParseError,
		}
	}

	point := &spatial.Point{Lat: lat, Lng: lng}

	address, err := p.geocoder.ReverseGeocode(ctx, lat, lng)

	switch {
	case errors.Is(err, geocode.ErrNoAddress):
		return &Result{
			Filename: rec.SourceFile,
			Address:  addrNotFound,
			Point:    point,
			Outcome:  OutcomeNotFound,
		}
	case err != nil:
		return &Result{
			Filename: rec.SourceFile,
			Address:  "Error getting address: " + err.Error(),
			Point:    point,
			Outcome:  OutcomeLookupError,
		}
	default:
		return &Result{
			Filename: rec.SourceFile,
			Address:  address,
			Point:    point,
			Outcome:  OutcomeOK,
		}
	}
}

// Run processes records strictly in input order and returns one result per
// record, in the same order. The context is polled between records only, so
// a cancellation never splits a record; the partial results are returned
// alongside the error.
func (p *Pipeline) Run(ctx context.Context, records []Record) ([]*Result, error) {
	n := len(records)

	var bar *progressbar.ProgressBar
	if !p.NoProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Resolving addresses"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]*Result, 0, n)

	// Counted separately so the summary reflects this run only; Metrics
	// accumulates across runs.
	var m Metrics

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			p.Metrics.Merge(&m)

			return results, fmt.Errorf("batch canceled after %d of %d records: %w", i, n, err)
		}

		res := p.resolveRecord(ctx, rec)
		m.add(res.Outcome)
		results = append(results, res)

		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Printf("Updating progress bar for %s: %s", res.Filename, err)
			}
		} else if !p.NoProgress {
			log.Printf("Resolved %s - %s", res.Filename, res.Outcome)
		}

		if p.OnProgress != nil {
			p.OnProgress(i+1, n)
		}
	}

	p.Metrics.Merge(&m)

	log.Printf(
		"Batch complete - %s records: %d resolved, %d without coordinates, %d not found, %d parse errors, %d lookup errors",
		utils.FormatInt(int64(n)),
		m.OK,
		m.NoCoordinates,
		m.NotFound,
		m.ParseErrors,
		m.LookupErrors,
	)

	return results, nil
}
