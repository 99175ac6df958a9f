package main

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/prerender/internal/initcmd"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter prerender.yaml and page template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return initcmd.Run(dir, a.output())
		},
	}
}
