package prerender

import (
	"context"
	iofs "io/fs"

	"github.com/charmbracelet/log"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/adapters/jsvm"
	"github.com/3-lines-studio/prerender/internal/adapters/stats"
	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

type Graph = core.Graph

type Stats = core.Stats

type Entrypoint = core.Entrypoint

type AssetRef = core.AssetRef

type Asset = core.Asset

type RawSource = core.RawSource

type Options = core.Options

type State = core.State

type PipelineError = core.PipelineError

var (
	ErrBadOptions    = core.ErrBadOptions
	ErrEvaluation    = core.ErrEvaluation
	ErrNotAFunction  = core.ErrNotAFunction
	ErrSerialization = core.ErrSerialization
)

// HTMLData is one template emission: the document and the page's
// prerender option as configured on the template.
type HTMLData struct {
	HTML       string
	Prerender  any
	OutputName string
}

type settings struct {
	namespace  string
	exportName string
	globals    []string
	cacheSize  int
	logger     *log.Logger
}

type Option func(*settings)

// WithNamespace sets the object the bootstrap script assigns the options
// onto. Defaults to window.
func WithNamespace(namespace string) Option {
	return func(s *settings) {
		s.namespace = namespace
	}
}

// WithExportName renders with a named property of the module export
// instead of the export itself.
func WithExportName(name string) Option {
	return func(s *settings) {
		s.exportName = name
	}
}

func WithPlaceholderGlobals(names ...string) Option {
	return func(s *settings) {
		s.globals = names
	}
}

func WithProgramCacheSize(size int) Option {
	return func(s *settings) {
		s.cacheSize = size
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

type Plugin struct {
	injector *usecase.InjectService
}

func New(opts ...Option) *Plugin {
	s := settings{
		namespace: core.DefaultNamespace,
		globals:   jsvm.DefaultPlaceholderGlobals,
		cacheSize: jsvm.DefaultProgramCacheSize,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	evaluator := jsvm.NewEvaluator(
		jsvm.WithPlaceholderGlobals(s.globals...),
		jsvm.WithExportName(s.exportName),
		jsvm.WithProgramCacheSize(s.cacheSize),
		jsvm.WithLogger(s.logger),
	)

	return &Plugin{
		injector: usecase.NewInjectService(evaluator, s.namespace, s.logger),
	}
}

// BeforeEmit renders the page's entry into the placeholder of data.HTML.
// It is safe to call concurrently for different pages sharing one graph.
// On error the returned data carries the input HTML unchanged.
func (p *Plugin) BeforeEmit(ctx context.Context, graph *Graph, data HTMLData) (HTMLData, error) {
	out := p.injector.Inject(ctx, usecase.InjectInput{
		Graph:     graph,
		HTML:      data.HTML,
		Prerender: data.Prerender,
		Page:      data.OutputName,
	})
	data.HTML = out.HTML
	return data, out.Error
}

// LoadGraph reads a bundler stats file and the script assets it lists from
// outDir. An empty outDir means the stats file's directory.
func LoadGraph(statsPath, outDir string) (*Graph, error) {
	return stats.NewLoader(fs.NewOSFileSystem(), log.Default()).Load(statsPath, outDir)
}

// LoadGraphFS is LoadGraph over an io/fs.FS, such as an embedded build.
func LoadGraphFS(fsys iofs.FS, statsPath, outDir string) (*Graph, error) {
	return stats.NewLoader(fs.NewReadOnlyFileSystem(fsys), log.Default()).Load(statsPath, outDir)
}

// NewGraph builds a graph in memory: entries map an entry name to its
// ordered asset names, sources map asset names to their content.
func NewGraph(entries map[string][]string, sources map[string]string) *Graph {
	st := &core.Stats{Entrypoints: make(map[string]core.Entrypoint, len(entries))}
	for name, assets := range entries {
		refs := make([]core.AssetRef, len(assets))
		for i, asset := range assets {
			refs[i] = core.AssetRef{Name: asset}
		}
		st.Entrypoints[name] = core.Entrypoint{Name: name, Assets: refs}
	}

	contents := make(map[string]core.Asset, len(sources))
	for name, src := range sources {
		contents[name] = core.RawSource(src)
	}
	return core.NewGraph(st, contents)
}
