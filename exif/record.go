// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package exif

import "github.com/photoaddr/photoaddr/spatial"

// Record is one row of an exiftool GPS dump. The coordinate fields hold
// DMS-formatted text (`37 deg 36' 55.54" N`) and may be empty when the
// photo carries no GPS tags.
type Record struct {
	SourceFile   string
	GPSLatitude  string
	GPSLongitude string
}

// Outcome classifies how a record's address resolution ended. Every record
// gets exactly one of these; failures are data, never batch aborts.
type Outcome int

const (
	// OutcomeOK means the coordinates parsed and the provider returned an address.
	OutcomeOK Outcome = iota
	// OutcomeNoCoordinates means at least one coordinate field was empty.
	OutcomeNoCoordinates
	// OutcomeNotFound means the provider had no address for valid coordinates.
	OutcomeNotFound
	// OutcomeParseError means a coordinate field did not follow the DMS format.
	OutcomeParseError
	// OutcomeLookupError means the provider call itself failed.
	OutcomeLookupError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "resolved"
	case OutcomeNoCoordinates:
		return "no coordinates"
	case OutcomeNotFound:
		return "not found"
	case OutcomeParseError:
		return "parse error"
	case OutcomeLookupError:
		return "lookup error"
	default:
		return "unknown"
	}
}

// Result is the per-record output row. Point is nil when the coordinates
// were missing or failed to parse; it is populated even when the address
// lookup failed, since parsing had already succeeded by then.
type Result struct {
	Filename string
	Address  string
	Point    *spatial.Point
	Outcome  Outcome
}
