/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/acronis/go-hrsearch/internal/directory"
)

func newOrgsCommand(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "Print organizations and the columns their search results contain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadAppConfig(opts.configPath)
			if err != nil {
				return err
			}
			store, err := directory.NewStore(cfg.Directory)
			if err != nil {
				return fmt.Errorf("create employee directory: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderOrgsTable(cfg.Directory.Organizations, store))
			return err
		},
	}
}

// renderOrgsTable renders one row per organization. Columns that cannot be projected are marked with "?".
func renderOrgsTable(columns directory.OrganizationColumns, store *directory.MemoryStore) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Organization", "Employees", "Columns"})
	for _, org := range columns.Organizations() {
		cols := make([]string, 0, len(columns[org]))
		for _, col := range columns[org] {
			if !directory.IsKnownColumn(col) {
				col += "?"
			}
			cols = append(cols, col)
		}
		t.AppendRow(table.Row{org, store.CountByOrganization(org), strings.Join(cols, ", ")})
	}
	t.AppendFooter(table.Row{"Total", store.Len(), ""})
	return t.Render()
}
