/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/suparena/searchstore/config"
)

func newRootCmd(fs afero.Fs) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "repogen",
		Short: "Generate searchstore repository declarations",
		Long: `repogen scans Go source under a base package for interfaces that embed
searchstore.Repository[T] and writes init-time declarations for them, so that
searchstore.Bootstrap can synthesize their implementations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: config.ParseLevel(logLevel),
		}))
	}

	rootCmd.AddCommand(
		newGenerateCmd(fs, logger),
		newScanCmd(fs, logger),
		newVersionCmd(),
	)
	return rootCmd
}
