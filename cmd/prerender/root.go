package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/prerender/internal/adapters/cli"
	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/adapters/jsvm"
	"github.com/3-lines-studio/prerender/internal/adapters/stats"
	"github.com/3-lines-studio/prerender/internal/config"
	"github.com/3-lines-studio/prerender/internal/logging"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	cfgFile  string
	logLevel string
	verbose  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "prerender",
		Short: "Render JavaScript entries into HTML templates at build time",
		Long: `prerender evaluates the compiled bundle of an entry, calls its exported
render function and splices the markup, plus a bootstrap script carrying the
page options, into the {{ prerender }} placeholder of an HTML template.`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./prerender.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print every built page and debug logs")

	root.AddCommand(
		a.newBuildCmd(),
		a.newInjectCmd(),
		a.newWatchCmd(),
		a.newInitCmd(),
		a.newVersionCmd(),
	)

	return root
}

func (a *app) output() *cli.Output {
	return cli.NewOutput(a.stdout, a.stderr)
}

// logger resolves the level from flags first, then the config file.
func (a *app) logger(cfg *config.Config) *log.Logger {
	level := a.logLevel
	if level == "" && a.verbose {
		level = "debug"
	}
	if level == "" && cfg != nil {
		level = cfg.LogLevel
	}
	return logging.New(a.stderr, level)
}

func (a *app) loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Load(a.cfgFile, wd)
}

func newEvaluator(cfg *config.Config, logger *log.Logger) *jsvm.Evaluator {
	return jsvm.NewEvaluator(
		jsvm.WithPlaceholderGlobals(cfg.PlaceholderGlobals...),
		jsvm.WithExportName(cfg.ExportName),
		jsvm.WithLogger(logger),
	)
}

func pageInputs(cfg *config.Config) []usecase.PageInput {
	pages := make([]usecase.PageInput, len(cfg.Pages))
	for i, p := range cfg.Pages {
		pages[i] = usecase.PageInput{
			Template:  p.Template,
			Output:    p.Output,
			Prerender: p.Prerender,
		}
	}
	return pages
}

// builder holds what survives between rebuilds in watch mode: the
// evaluator keeps its compiled program cache across runs.
type builder struct {
	cfg    *config.Config
	logger *log.Logger
	loader *stats.Loader
	build  *usecase.BuildService
}

func newBuilder(cfg *config.Config, logger *log.Logger) *builder {
	fsys := fs.NewOSFileSystem()
	injector := usecase.NewInjectService(newEvaluator(cfg, logger), cfg.Namespace, logger)
	return &builder{
		cfg:    cfg,
		logger: logger,
		loader: stats.NewLoader(fsys, logger),
		build:  usecase.NewBuildService(injector, fsys, logger),
	}
}

func (b *builder) run(cmd *cobra.Command) (usecase.BuildOutput, error) {
	graph, err := b.loader.Load(b.cfg.Stats, b.cfg.OutDir)
	if err != nil {
		return usecase.BuildOutput{}, err
	}
	return b.build.BuildPages(cmd.Context(), usecase.BuildInput{
		Graph:       graph,
		Pages:       pageInputs(b.cfg),
		Concurrency: b.cfg.Concurrency,
	}), nil
}
