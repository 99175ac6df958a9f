package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/3-lines-studio/prerender/internal/core"
	"github.com/3-lines-studio/prerender/internal/usecase"
)

type BuildReport struct {
	out       *Output
	startTime time.Time
	verbose   bool
}

func NewBuildReport(out *Output, verbose bool) *BuildReport {
	return &BuildReport{
		out:       out,
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// Render prints one line per page followed by a summary. Failed pages are
// listed with the pipeline error kind and message.
func (r *BuildReport) Render(result usecase.BuildOutput) {
	r.out.PrintSuccess("%d pages found", len(result.Results))

	for _, page := range result.Results {
		if page.Error != nil || !r.verbose {
			continue
		}
		entry := page.Entry
		if entry == "" {
			entry = "-"
		}
		r.out.PrintFile(fmt.Sprintf("%s %s %s",
			page.Page.Output,
			r.out.Gray("entry="+entry),
			r.out.Gray(formatDuration(page.Duration))))
	}

	failed := result.Failed()
	if failed > 0 {
		fmt.Fprintln(r.out.stderr)
		r.out.PrintError("Errors (%d):", failed)
		for _, page := range result.Results {
			if page.Error == nil {
				continue
			}
			fmt.Fprintf(r.out.stderr, "  %s %s\n", r.out.Red("✗"), page.Page.Template)
			fmt.Fprintf(r.out.stderr, "    %s\n", errorLabel(page.Error))
			for _, artifact := range page.Artifacts {
				fmt.Fprintf(r.out.stderr, "      • %s\n", artifact)
			}
		}
		fmt.Fprintln(r.out.stderr)
		r.out.PrintError("Build failed after %s", formatDuration(time.Since(r.startTime)))
		return
	}

	r.out.PrintSuccess("Build complete in %s", formatDuration(time.Since(r.startTime)))
}

func errorLabel(err error) string {
	var pe *core.PipelineError
	if errors.As(err, &pe) {
		return fmt.Sprintf("[%s] %s", kindName(pe.Kind), err.Error())
	}
	return err.Error()
}

func kindName(kind error) string {
	switch {
	case errors.Is(kind, core.ErrBadOptions):
		return "bad-options"
	case errors.Is(kind, core.ErrEvaluation):
		return "evaluation"
	case errors.Is(kind, core.ErrNotAFunction):
		return "not-a-function"
	case errors.Is(kind, core.ErrSerialization):
		return "serialization"
	default:
		return "error"
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}
