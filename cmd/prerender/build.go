package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
)

func (a *app) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Prerender every page listed in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := a.logger(cfg)
			result, err := newBuilder(cfg, logger).run(cmd)
			if err != nil {
				return err
			}

			cli.NewBuildReport(a.output(), a.verbose).Render(result)
			if failed := result.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d pages failed", failed, len(result.Results))
			}
			return nil
		},
	}
}
