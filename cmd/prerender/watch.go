package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
	"github.com/3-lines-studio/prerender/internal/adapters/watch"
	"github.com/3-lines-studio/prerender/internal/config"
)

func (a *app) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever the bundle or a template changes",
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
			b := newBuilder(cfg, logger)

			rebuild := func(context.Context, []string) error {
				result, err := b.run(cmd)
				if err != nil {
					return err
				}
				cli.NewBuildReport(a.output(), a.verbose).Render(result)
				return result.Error
			}

			if err := rebuild(cmd.Context(), nil); err != nil {
				logger.Error("initial build failed", "err", err)
			}

			w, err := watch.New(watch.Config{
				Dirs:     watchDirs(cfg),
				Ignore:   cfg.Watch.Ignore,
				Skip:     outputs(cfg),
				Debounce: cfg.Watch.Debounce,
				OnChange: rebuild,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			logger.Info("watching for changes", "stats", cfg.Stats)
			return w.Run(cmd.Context())
		},
	}
}

func watchDirs(cfg *config.Config) []string {
	dirs := []string{filepath.Dir(cfg.Stats), cfg.OutDir}
	for _, page := range cfg.Pages {
		dirs = append(dirs, filepath.Dir(page.Template))
	}
	return dirs
}

func outputs(cfg *config.Config) []string {
	out := make([]string, len(cfg.Pages))
	for i, page := range cfg.Pages {
		out[i] = page.Output
	}
	return out
}
