// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package results

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/photoaddr/photoaddr/spatial"
)

const (
	defaultPageSize = 100

	// defaultNearbyRadius is in meters; wide enough to catch every photo
	// taken around one city block.
	defaultNearbyRadius = 500.0
)

// Server exposes a read-only JSON API over the results repository so a
// processed batch can be browsed without re-running anything.
type Server struct {
	repo Repository
}

// NewServer creates a review server over the given repository.
func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/runs", s.listRuns)
	r.GET("/api/runs/:id/results", s.listResults)
	r.GET("/api/runs/:id/nearby", s.nearbyResults)
	r.GET("/api/runs/:id/cells", s.cellSummary)

	return r
}

// Run serves the API on the given address until the process exits.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) listRuns(ctx *gin.Context) {
	runs, err := s.repo.ListRuns()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if runs == nil {
		runs = []*Run{}
	}

	ctx.JSON(http.StatusOK, runs)
}

func (s *Server) listResults(ctx *gin.Context) {
	runID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})

		return
	}

	limit := defaultPageSize
	if raw := ctx.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

			return
		}
	}

	offset := 0
	if raw := ctx.Query("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset parameter"})

			return
		}
	}

	query := ctx.Query("q")

	rows, err := s.repo.ListResults(runID, query, limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	total, err := s.repo.CountResults(runID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if rows == nil {
		rows = []*Row{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total":   total,
		"results": rows,
	})
}

func (s *Server) nearbyResults(ctx *gin.Context) {
	runID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})

		return
	}

	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat parameter"})

		return
	}

	lng, err := strconv.ParseFloat(ctx.Query("lng"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid lng parameter"})

		return
	}

	radius := defaultNearbyRadius
	if raw := ctx.Query("radius"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil || radius <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius parameter"})

			return
		}
	}

	rows, err := s.repo.NearbyResults(runID, spatial.Point{Lat: lat, Lng: lng}, radius)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if rows == nil {
		rows = []*Row{}
	}

	ctx.JSON(http.StatusOK, rows)
}

func (s *Server) cellSummary(ctx *gin.Context) {
	runID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})

		return
	}

	res := 7 // neighborhood scale by default
	if raw := ctx.Query("res"); raw != "" {
		if res, err = strconv.Atoi(raw); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid res parameter"})

			return
		}
	}

	cells, err := s.repo.CellSummary(runID, res)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if cells == nil {
		cells = []*CellCount{}
	}

	ctx.JSON(http.StatusOK, cells)
}
