package usecase

import (
	"context"
	"fmt"
	"maps"

	"github.com/charmbracelet/log"

	"github.com/3-lines-studio/prerender/internal/core"
)

type InjectInput struct {
	Graph     *core.Graph
	HTML      string
	Prerender any
	Page      string
}

type InjectOutput struct {
	HTML      string
	State     core.State
	Trace     []core.State
	Entry     string
	Artifacts []string
	Error     error
}

type InjectService struct {
	evaluator Evaluator
	namespace string
	logger    *log.Logger
}

func NewInjectService(evaluator Evaluator, namespace string, logger *log.Logger) *InjectService {
	if namespace == "" {
		namespace = core.DefaultNamespace
	}
	if logger == nil {
		logger = log.Default()
	}
	return &InjectService{
		evaluator: evaluator,
		namespace: namespace,
		logger:    logger,
	}
}

type injectRun struct {
	logger *log.Logger
	out    InjectOutput
}

func (r *injectRun) to(state core.State) {
	r.out.State = state
	r.out.Trace = append(r.out.Trace, state)
	r.logger.Debug("prerender state", "state", state)
}

func (r *injectRun) fail(err error) InjectOutput {
	r.out.Error = err
	r.to(core.StateFailed)
	r.logger.Warn("prerender failed", "err", err)
	return r.out
}

// Inject handles one template emission: it renders the configured entry
// and splices the result into the template's placeholder. On failure the
// returned HTML is the input HTML, untouched.
func (s *InjectService) Inject(ctx context.Context, input InjectInput) InjectOutput {
	run := &injectRun{
		logger: s.logger.With("page", input.Page),
		out:    InjectOutput{HTML: input.HTML},
	}
	run.to(core.StateIdle)

	if err := ctx.Err(); err != nil {
		return run.fail(fmt.Errorf("injection canceled: %w", err))
	}

	if core.IsAbsent(input.Prerender) {
		run.to(core.StateDone)
		return run.out
	}

	run.to(core.StateNormalizingOptions)
	opts, ok := core.AsOptions(core.NormalizeOptions(input.Prerender))
	if !ok {
		return run.fail(core.BadOptionsError(input.Prerender))
	}
	opts = maps.Clone(opts)
	run.out.Entry = opts.Entry()
	run.logger = run.logger.With("entry", run.out.Entry)

	run.to(core.StateResolvingAssets)
	artifacts := core.ResolveAssets(input.Graph, run.out.Entry)
	run.out.Artifacts = core.ArtifactNames(artifacts)
	run.logger.Debug("resolved artifacts", "artifacts", run.out.Artifacts)

	run.to(core.StateEvaluating)
	export, err := s.evaluator.Evaluate(core.ConcatSources(artifacts))
	if err != nil {
		return run.fail(core.EvaluationError(err))
	}

	run.to(core.StateComposing)
	fragment, err := core.ComposeFragment(export, opts, s.namespace)
	if err != nil {
		return run.fail(err)
	}

	run.to(core.StateSubstituting)
	if !core.HasPlaceholder(input.HTML) {
		run.logger.Debug("template has no prerender placeholder")
	}
	run.out.HTML = core.SubstitutePlaceholder(input.HTML, fragment)

	run.to(core.StateDone)
	return run.out
}
