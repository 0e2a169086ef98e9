/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command repogen generates searchstore repository declarations from Go source.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
