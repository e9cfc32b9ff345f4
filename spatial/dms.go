// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dmsPattern matches EXIF-style sexagesimal coordinates such as
// `37 deg 36' 55.54" N`. Both the ASCII quote marks and their Unicode
// prime equivalents (′, ″) are accepted. The match is anchored: any
// leading or trailing garbage rejects the whole string.
var dmsPattern = regexp.MustCompile(
	`(?i)^(\d+)\s*deg\s+(\d+)\s*['′]\s+(\d+(?:\.\d+)?)\s*["″]\s+([NSEW])$`,
)

// FormatError reports a coordinate string that does not follow the
// DMS pattern.
type FormatError struct {
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid DMS format: %q", e.Text)
}

// ParseDMS converts a Degrees/Minutes/Seconds coordinate string into signed
// decimal degrees. Southern and western hemispheres yield negative values.
//
// Minutes and seconds are validated for shape only, not for range: a value
// like 75 minutes is accepted and folded into the arithmetic. Tightening
// this would reject data that cameras demonstrably emit.
func ParseDMS(text string) (float64, error) {
	m := dmsPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, &FormatError{Text: text}
	}

	degrees, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, &FormatError{Text: text}
	}

	minutes, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, &FormatError{Text: text}
	}

	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, &FormatError{Text: text}
	}

	decimal := degrees + minutes/60 + seconds/3600

	switch strings.ToUpper(m[4]) {
	case "S", "W":
		decimal = -decimal
	}

	return decimal, nil
}
