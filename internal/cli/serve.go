/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/acronis/go-hrsearch/internal/version"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/service"
)

func newServeCommand(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadAppConfig(opts.configPath)
			if err != nil {
				return err
			}

			logger, closeLogger := log.NewLogger(cfg.Log)
			defer closeLogger()

			info := version.Get()
			logger.Info("starting hrsearch", log.String("version", info.Version), log.String("commit", info.Commit))

			app, err := NewApp(cfg, logger)
			if err != nil {
				logger.Error("service initialization failed", log.Error(err))
				return err
			}
			return service.New(logger, app.Unit).StartContext(cmd.Context())
		},
	}
}
