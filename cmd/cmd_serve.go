// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/photoaddr/photoaddr/results"
	"github.com/spf13/cobra"
)

var serveOptions = struct {
	dbPath string
	listen string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recorded geocoding runs over a JSON API",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := sql.Open("duckdb", filepath.Join(serveOptions.dbPath, "photoaddr.duckdb"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := results.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		return results.NewServer(repo).Run(serveOptions.listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&serveOptions.dbPath,
		"db-path",
		"db",
		"Directory holding the local results database",
	)
	serveCmd.Flags().StringVar(
		&serveOptions.listen,
		"listen",
		"localhost:8080",
		"Address to listen on",
	)
}
