// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "photoaddr",
	Short: "reverse-geocode EXIF GPS coordinates into street addresses",
	Long: `
photoaddr takes the CSV that exiftool produces for a photo collection,
parses the Degrees/Minutes/Seconds GPS coordinate of every picture and
resolves it into a human-readable address through a reverse-geocoding
provider. One unparseable or unresolvable photo never aborts the batch:
its error lands in that photo's output row.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	// Interrupts stop the batch between records; partial output is kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}
