/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/suparena/searchstore/processor"
)

func newGenerateCmd(fsys afero.Fs, logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		manifestPath string
		moduleDir    string
		output       string
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "generate [base-package]",
		Short: "Write declaration files for the repository contracts under a base package",
		Long: `generate reads repogen.yaml when present, then applies flags and the optional
base package argument on top of it. One file is written per package that
declares repository contracts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := processor.LoadManifest(fsys, manifestPath)
			if err != nil {
				if cmd.Flags().Changed("manifest") || !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				m = &processor.Manifest{}
			}
			if len(args) == 1 {
				m.Packages = []string{args[0]}
			}
			if cmd.Flags().Changed("module-dir") {
				m.ModuleDir = moduleDir
			}
			if cmd.Flags().Changed("output") {
				m.Output = output
			}
			if strict {
				m.StrictIndexNames = true
			}

			res, err := processor.Run(fsys, *m, logger(cmd))
			if err != nil {
				return err
			}
			for _, f := range res.Files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", processor.DefaultManifest, "Manifest file path")
	cmd.Flags().StringVar(&moduleDir, "module-dir", ".", "Directory holding go.mod")
	cmd.Flags().StringVar(&output, "output", processor.DefaultOutput, "Generated file name")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject contracts without an index directive")
	return cmd
}
