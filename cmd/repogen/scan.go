/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/scanner"
)

func newScanCmd(fs afero.Fs, logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var moduleDir string

	cmd := &cobra.Command{
		Use:   "scan <base-package>",
		Short: "List the repository contracts under a base package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scanner.New(fs, scanner.WithModuleDir(moduleDir), scanner.WithLogger(logger(cmd)))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tINDEX\tCONTRACT\tSOURCE")
			for _, t := range s.Scan(args[0]) {
				if !contract.IsRepositoryContract(t) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", contract.RegistrationKey(t), contract.ResolveIndexName(t), t.QualifiedName(), t.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&moduleDir, "module-dir", ".", "Directory holding go.mod")
	return cmd
}
