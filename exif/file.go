// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package exif

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Column names as exiftool emits them.
const (
	colSourceFile = "SourceFile"
	colLatitude   = "GPSLatitude"
	colLongitude  = "GPSLongitude"
)

// ReadRecords loads an exiftool CSV dump. The header must contain a
// SourceFile column; the GPS columns are optional, and rows missing them
// simply carry empty coordinates. Extra columns are ignored.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // exiftool pads ragged rows; tolerate them

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	sourceIdx, latIdx, lngIdx := -1, -1, -1

	for i, name := range header {
		switch name {
		case colSourceFile:
			sourceIdx = i
		case colLatitude:
			latIdx = i
		case colLongitude:
			lngIdx = i
		}
	}

	if sourceIdx == -1 {
		return nil, fmt.Errorf("input file has no %s column", colSourceFile)
	}

	var records []Record

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		records = append(records, Record{
			SourceFile:   field(row, sourceIdx),
			GPSLatitude:  field(row, latIdx),
			GPSLongitude: field(row, lngIdx),
		})
	}

	return records, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return row[idx]
}

// WriteResults saves the batch output as CSV: one row per input record, in
// input order, with empty latitude/longitude cells for rows whose
// coordinates never resolved.
func WriteResults(path string, results []*Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{"filename", "address", "latitude", "longitude"}); err != nil {
		f.Close()

		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, res := range results {
		lat, lng := "", ""
		if res.Point != nil {
			lat = strconv.FormatFloat(res.Point.Lat, 'f', -1, 64)
			lng = strconv.FormatFloat(res.Point.Lng, 'f', -1, 64)
		}

		if err := w.Write([]string{res.Filename, res.Address, lat, lng}); err != nil {
			f.Close()

			return fmt.Errorf("writing CSV row for %s: %w", res.Filename, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()

		return fmt.Errorf("flushing output file: %w", err)
	}

	return f.Close()
}
