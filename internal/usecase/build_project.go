package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/prerender/internal/core"
)

type PageInput struct {
	Template  string
	Output    string
	Prerender any
}

type BuildInput struct {
	Graph       *core.Graph
	Pages       []PageInput
	Concurrency int
}

type PageResult struct {
	Page      PageInput
	State     core.State
	Entry     string
	Artifacts []string
	Duration  time.Duration
	Error     error
}

type BuildOutput struct {
	Results []PageResult
	Error   error
}

func (o BuildOutput) Failed() int {
	failed := 0
	for _, r := range o.Results {
		if r.Error != nil {
			failed++
		}
	}
	return failed
}

type BuildService struct {
	injector *InjectService
	fs       FileSystem
	logger   *log.Logger
}

func NewBuildService(injector *InjectService, fs FileSystem, logger *log.Logger) *BuildService {
	if logger == nil {
		logger = log.Default()
	}
	return &BuildService{
		injector: injector,
		fs:       fs,
		logger:   logger,
	}
}

// BuildPages injects every page independently. Pages share only the
// read-only graph, so they run concurrently; one page failing does not stop
// the others.
func (s *BuildService) BuildPages(ctx context.Context, input BuildInput) BuildOutput {
	if len(input.Pages) == 0 {
		return BuildOutput{Error: fmt.Errorf("no pages to build")}
	}

	limit := input.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]PageResult, len(input.Pages))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, page := range input.Pages {
		g.Go(func() error {
			results[i] = s.buildPage(ctx, input.Graph, page)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("page %s: %w", r.Page.Template, r.Error))
		}
	}

	return BuildOutput{
		Results: results,
		Error:   errors.Join(errs...),
	}
}

func (s *BuildService) buildPage(ctx context.Context, graph *core.Graph, page PageInput) PageResult {
	start := time.Now()
	result := PageResult{Page: page, State: core.StateIdle}

	template, err := s.fs.ReadFile(page.Template)
	if err != nil {
		result.State = core.StateFailed
		result.Error = fmt.Errorf("failed to read template: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	out := s.injector.Inject(ctx, InjectInput{
		Graph:     graph,
		HTML:      string(template),
		Prerender: page.Prerender,
		Page:      page.Template,
	})
	result.State = out.State
	result.Entry = out.Entry
	result.Artifacts = out.Artifacts

	if out.Error != nil {
		result.Error = out.Error
		result.Duration = time.Since(start)
		return result
	}

	if err := s.writeOutput(page.Output, out.HTML); err != nil {
		result.State = core.StateFailed
		result.Error = err
	}

	result.Duration = time.Since(start)
	s.logger.Debug("page built", "template", page.Template, "output", page.Output, "duration", result.Duration)
	return result
}

func (s *BuildService) writeOutput(path, html string) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := s.fs.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
