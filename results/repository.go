// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package results

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/photoaddr/photoaddr/exif"
	"github.com/photoaddr/photoaddr/spatial"
	"github.com/photoaddr/photoaddr/utils"
	"github.com/uber/h3-go/v4"
)

// H3 resolutions indexed per row. Coarse cells answer "which regions did
// this batch touch", fine cells group photos taken at the same spot.
const (
	h3MinRes = 1
	h3MaxRes = 8
)

// Run is one recorded geocoding batch.
type Run struct {
	ID        int       `json:"id"`
	InputFile string    `json:"input_file"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	Records   int       `json:"records"`
}

// Row is one persisted per-photo result.
type Row struct {
	ID       int            `json:"id"`
	RunID    int            `json:"run_id"`
	Filename string         `json:"filename"`
	Address  string         `json:"address"`
	Outcome  string         `json:"outcome"`
	Point    *spatial.Point `json:"point,omitempty"`
}

// CellCount aggregates rows sharing an H3 cell.
type CellCount struct {
	Cell          string `json:"cell"`
	Count         int    `json:"count"`
	SampleAddress string `json:"sample_address"`
}

// Repository persists geocoding runs and their per-photo results.
type Repository interface {
	// CreateSchema creates the runs and results tables.
	CreateSchema() error

	// SaveRun stores a batch and returns its run id.
	SaveRun(inputFile, provider string, results []*exif.Result) (int, error)

	// ListRuns returns all recorded runs, newest first.
	ListRuns() ([]*Run, error)

	// ListResults returns a run's rows, optionally filtered by an
	// accent/case-insensitive address substring.
	ListResults(runID int, query string, limit, offset int) ([]*Row, error)

	// CountResults returns the number of rows stored for a run.
	CountResults(runID int) (int, error)

	// NearbyResults returns a run's located rows within radius meters of
	// center, closest first.
	NearbyResults(runID int, center spatial.Point, radius float64) ([]*Row, error)

	// CellSummary groups a run's located rows by H3 cell at the given resolution.
	CellSummary(runID, res int) ([]*CellCount, error)
}

type sqlResultRepository struct {
	db *sql.DB
}

// NewRepository creates a DuckDB-backed result repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlResultRepository{db: db}
}

func (r *sqlResultRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension for POINT_2D
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS runs_seq START 1;
		CREATE SEQUENCE IF NOT EXISTS results_seq START 1;

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY DEFAULT nextval('runs_seq'),
			input_file VARCHAR NOT NULL,
			provider VARCHAR NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY DEFAULT nextval('results_seq'),
			run_id INTEGER NOT NULL,
			filename VARCHAR NOT NULL,
			address VARCHAR NOT NULL,
			address_folded VARCHAR NOT NULL,
			outcome VARCHAR NOT NULL,
			point POINT_2D,
			h3_res1 UBIGINT NOT NULL,
			h3_res2 UBIGINT NOT NULL,
			h3_res3 UBIGINT NOT NULL,
			h3_res4 UBIGINT NOT NULL,
			h3_res5 UBIGINT NOT NULL,
			h3_res6 UBIGINT NOT NULL,
			h3_res7 UBIGINT NOT NULL,
			h3_res8 UBIGINT NOT NULL
		);
	`)

	return err
}

// computeCells indexes a point at every tracked H3 resolution. Rows without
// a point store zero cells.
func computeCells(point *spatial.Point) ([h3MaxRes]int64, error) {
	var cells [h3MaxRes]int64

	if point == nil {
		return cells, nil
	}

	latLng := h3.NewLatLng(point.Lat, point.Lng)

	for res := h3MinRes; res <= h3MaxRes; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return cells, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		cells[res-1] = int64(cell)
	}

	return cells, nil
}

func (r *sqlResultRepository) SaveRun(inputFile, provider string, results []*exif.Result) (int, error) {
	var runID int

	err := r.db.QueryRow(
		`INSERT INTO runs(input_file, provider) VALUES (?, ?) RETURNING id`,
		inputFile, provider,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}

	withPoint, err := tx.Prepare(`
		INSERT INTO results(
			run_id, filename, address, address_folded, outcome, point,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ST_Point(?, ?), ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, rollback(tx, err)
	}
	defer withPoint.Close()

	withoutPoint, err := tx.Prepare(`
		INSERT INTO results(
			run_id, filename, address, address_folded, outcome, point,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
		)
		VALUES (?, ?, ?, ?, ?, NULL, 0, 0, 0, 0, 0, 0, 0, 0)
	`)
	if err != nil {
		return 0, rollback(tx, err)
	}
	defer withoutPoint.Close()

	for _, res := range results {
		folded := utils.LowerASCIIFolding(res.Address)

		if res.Point == nil {
			if _, err := withoutPoint.Exec(runID, res.Filename, res.Address, folded, res.Outcome.String()); err != nil {
				return 0, rollback(tx, err)
			}

			continue
		}

		cells, err := computeCells(res.Point)
		if err != nil {
			return 0, rollback(tx, err)
		}

		_, err = withPoint.Exec(
			runID, res.Filename, res.Address, folded, res.Outcome.String(),
			res.Point.Lng, res.Point.Lat,
			cells[0], cells[1], cells[2], cells[3], cells[4], cells[5], cells[6], cells[7],
		)
		if err != nil {
			return 0, rollback(tx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return runID, nil
}

func rollback(tx *sql.Tx, err error) error {
	if rErr := tx.Rollback(); rErr != nil {
		return rErr
	}

	return err
}

func (r *sqlResultRepository) ListRuns() ([]*Run, error) {
	rows, err := r.db.Query(`
		SELECT r.id, r.input_file, r.provider, r.created_at,
		       (SELECT COUNT(*) FROM results t WHERE t.run_id = r.id)
		FROM runs r
		ORDER BY r.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.InputFile, &run.Provider, &run.CreatedAt, &run.Records); err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *sqlResultRepository) ListResults(runID int, query string, limit, offset int) ([]*Row, error) {
	sqlQuery := `
		SELECT id, run_id, filename, address, outcome, point
		FROM results
		WHERE run_id = ?
	`
	args := []any{runID}

	if query != "" {
		sqlQuery += ` AND address_folded LIKE ?`
		args = append(args, "%"+utils.LowerASCIIFolding(query)+"%")
	}

	sqlQuery += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Row

	for rows.Next() {
		row := &Row{}

		var rawPoint any
		if err := rows.Scan(&row.ID, &row.RunID, &row.Filename, &row.Address, &row.Outcome, &rawPoint); err != nil {
			return nil, err
		}

		if rawPoint != nil {
			var pt spatial.Point
			if err := pt.Scan(rawPoint); err != nil {
				return nil, err
			}

			row.Point = &pt
		}

		out = append(out, row)
	}

	return out, rows.Err()
}

func (r *sqlResultRepository) CountResults(runID int) (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM results WHERE run_id = ?`, runID).Scan(&count)

	return count, err
}

func (r *sqlResultRepository) NearbyResults(runID int, center spatial.Point, radius float64) ([]*Row, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", radius)
	}

	rows, err := r.db.Query(`
		SELECT id, run_id, filename, address, outcome, point
		FROM results
		WHERE run_id = ? AND point IS NOT NULL
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type located struct {
		row      *Row
		distance float64
	}

	var candidates []located

	for rows.Next() {
		row := &Row{}

		var rawPoint any
		if err := rows.Scan(&row.ID, &row.RunID, &row.Filename, &row.Address, &row.Outcome, &rawPoint); err != nil {
			return nil, err
		}

		var pt spatial.Point
		if err := pt.Scan(rawPoint); err != nil {
			return nil, err
		}

		row.Point = &pt

		d := center.HaversineDistance(&pt)
		if d > radius {
			continue
		}

		candidates = append(candidates, located{row: row, distance: d})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]*Row, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.row)
	}

	return out, nil
}

func (r *sqlResultRepository) CellSummary(runID, res int) ([]*CellCount, error) {
	if res < h3MinRes || res > h3MaxRes {
		return nil, fmt.Errorf("h3 resolution must be between %d and %d, got %d", h3MinRes, h3MaxRes, res)
	}

	col := fmt.Sprintf("h3_res%d", res)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*), MIN(address)
		FROM results
		WHERE run_id = ? AND point IS NOT NULL
		GROUP BY %s
		ORDER BY COUNT(*) DESC, %s
	`, col, col, col)

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CellCount

	for rows.Next() {
		// UBIGINT comes back as uint64; H3 indexes never use the top bit.
		var cell uint64

		cc := &CellCount{}
		if err := rows.Scan(&cell, &cc.Count, &cc.SampleAddress); err != nil {
			return nil, err
		}

		cc.Cell = h3.Cell(cell).String()
		out = append(out, cc)
	}

	return out, rows.Err()
}
