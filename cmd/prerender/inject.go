package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/adapters/jsvm"
	"github.com/3-lines-studio/prerender/internal/adapters/stats"
	"github.com/3-lines-studio/prerender/internal/config"
	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

type injectFlags struct {
	stats      string
	outDir     string
	template   string
	output     string
	entry      string
	set        []string
	namespace  string
	exportName string
}

func (a *app) newInjectCmd() *cobra.Command {
	var f injectFlags

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Prerender a single template without a config file",
		Example: `  prerender inject --stats dist/stats.json --template src/index.html --entry main
  prerender inject --template src/index.html --entry main --set title=Home --output dist/index.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &config.Config{
				Stats:              f.stats,
				OutDir:             f.outDir,
				Namespace:          f.namespace,
				ExportName:         f.exportName,
				PlaceholderGlobals: jsvm.DefaultPlaceholderGlobals,
			}
			logger := a.logger(cfg)

			prerender, err := f.options()
			if err != nil {
				return err
			}

			fsys := fs.NewOSFileSystem()
			graph, err := stats.NewLoader(fsys, logger).Load(f.stats, f.outDir)
			if err != nil {
				return err
			}

			html, err := fsys.ReadFile(f.template)
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}

			injector := usecase.NewInjectService(newEvaluator(cfg, logger), f.namespace, logger)
			out := injector.Inject(cmd.Context(), usecase.InjectInput{
				Graph:     graph,
				HTML:      string(html),
				Prerender: prerender,
				Page:      f.template,
			})
			if out.Error != nil {
				return out.Error
			}

			if f.output == "" {
				_, err := fmt.Fprint(a.stdout, out.HTML)
				return err
			}
			if err := fsys.MkdirAll(filepath.Dir(f.output), 0755); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}
			if err := fsys.WriteFile(f.output, []byte(out.HTML), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.output, err)
			}
			a.output().PrintSuccess("Wrote %s", f.output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.stats, "stats", config.DefaultStats, "bundler stats file")
	flags.StringVar(&f.outDir, "out-dir", "", "directory holding the emitted assets (default is the stats file's directory)")
	flags.StringVarP(&f.template, "template", "t", "", "HTML template with a {{ prerender }} placeholder")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default is stdout)")
	flags.StringVarP(&f.entry, "entry", "e", "", "entry to render")
	flags.StringArrayVar(&f.set, "set", nil, "extra option as key=value; JSON values are decoded")
	flags.StringVar(&f.namespace, "namespace", core.DefaultNamespace, "object the bootstrap script assigns options onto")
	flags.StringVar(&f.exportName, "export", "", "named export holding the render function")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

// options builds the prerender option: absent without --entry or --set, the
// bare entry name when only --entry is given, an object otherwise.
func (f injectFlags) options() (any, error) {
	if len(f.set) == 0 {
		if f.entry == "" {
			return nil, nil
		}
		return f.entry, nil
	}

	opts := map[string]any{}
	for _, kv := range f.set {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		opts[key] = value
	}
	if f.entry != "" {
		opts[core.EntryKey] = f.entry
	}
	return opts, nil
}
