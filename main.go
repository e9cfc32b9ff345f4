// Copyright 2026 The PhotoAddr Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/photoaddr/photoaddr/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
