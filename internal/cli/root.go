/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package cli implements the hrsearch command line.
package cli

import (
	"github.com/spf13/cobra"
)

type rootOpts struct {
	configPath string
}

// NewRootCommand creates the hrsearch command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOpts{}
	rootCmd := &cobra.Command{
		Use:           "hrsearch",
		Short:         "HR employee search service",
		Long:          "HR employee search service with per-client rate limiting.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (.yml, .yaml or .json); defaults and "+EnvVarsPrefix+"_* environment variables are used if not set")

	rootCmd.AddCommand(newServeCommand(opts), newOrgsCommand(opts), newVersionCommand())
	return rootCmd
}
