// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/photoaddr/photoaddr/spatial"
	"github.com/spf13/cobra"
)

// we say that it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDMSCmd = &cobra.Command{
	Use:   "dms",
	Short: "Interact with the DMS coordinate parser",
	Long: `Reads one coordinate per line and prints the coordinate followed by its
decimal-degrees value.

$ echo "37 deg 36' 55.54\" N" | photoaddr debug dms
37 deg 36' 55.54" N		37.615428
	`,
	Run: func(_ *cobra.Command, _ []string) {
		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Enter coordinates to parse, one per line…")
		}
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			text := scanner.Text()
			value, err := spatial.ParseDMS(text)
			if err != nil {
				fmt.Printf("%s\t%q\n", text, err)
			} else {
				fmt.Printf("%s\t\t%f\n", text, value)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDMSCmd)
}
