// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package exif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/photoaddr/photoaddr/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadRecords(t *testing.T) {
	path := writeTempCSV(t, `SourceFile,Model,GPSLatitude,GPSLongitude
img1.jpg,Pixel 7,"37 deg 36' 55.54"" N","122 deg 25' 9.85"" W"
img2.jpg,Pixel 7,,
img3.jpg,Pixel 7
`)

	records, err := ReadRecords(path)
	require.NoError(t, err)

	want := []Record{
		{
			SourceFile:   "img1.jpg",
			GPSLatitude:  `37 deg 36' 55.54" N`,
			GPSLongitude: `122 deg 25' 9.85" W`,
		},
		{SourceFile: "img2.jpg"},
		{SourceFile: "img3.jpg"}, // ragged row, GPS cells absent
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecords_NoGPSColumns(t *testing.T) {
	path := writeTempCSV(t, "SourceFile,Model\nimg1.jpg,Pixel 7\n")

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].GPSLatitude)
	assert.Empty(t, records[0].GPSLongitude)
}

func TestReadRecords_MissingSourceFileColumn(t *testing.T) {
	path := writeTempCSV(t, "GPSLatitude,GPSLongitude\n,\n")

	_, err := ReadRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SourceFile")
}

func TestReadRecords_MissingFile(t *testing.T) {
	_, err := ReadRecords(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	results := []*Result{
		{
			Filename: "img1.jpg",
			Address:  "1 Infinite Loop, Cupertino, CA",
			Point:    &spatial.Point{Lat: 37.6154, Lng: -122.4194},
			Outcome:  OutcomeOK,
		},
		{
			Filename: "img2.jpg",
			Address:  "No coordinates available",
			Outcome:  OutcomeNoCoordinates,
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteResults(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "filename,address,latitude,longitude\n" +
		"img1.jpg,\"1 Infinite Loop, Cupertino, CA\",37.6154,-122.4194\n" +
		"img2.jpg,No coordinates available,,\n"
	assert.Equal(t, want, string(data))
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := writeTempCSV(t, `SourceFile,GPSLatitude,GPSLongitude
a.jpg,"1 deg 30' 0"" N","2 deg 0' 0"" E"
b.jpg,,
`)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	out := filepath.Join(t.TempDir(), "out.csv")
	results := []*Result{
		{Filename: records[0].SourceFile, Address: "x", Point: &spatial.Point{Lat: 1.5, Lng: 2}},
		{Filename: records[1].SourceFile, Address: "No coordinates available"},
	}
	require.NoError(t, WriteResults(out, results))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.jpg,x,1.5,2\n")
	assert.Contains(t, string(data), "b.jpg,No coordinates available,,\n")
}
