/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acronis/go-hrsearch/internal/version"
)

func newVersionCommand() *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			if !extended {
				_, err := fmt.Fprintf(out, "hrsearch %s\n", info.Version)
				return err
			}
			_, err := fmt.Fprintf(out, "hrsearch %s\nCommit: %s\nBuilt: %s\nGo: %s\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion)
			return err
		},
	}
	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "show commit, build date and Go version")
	return cmd
}
