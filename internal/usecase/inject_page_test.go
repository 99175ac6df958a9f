package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/prerender/internal/adapters/jsvm"
	"github.com/3-lines-studio/prerender/internal/core"
)

const template = `<html><body><div id="app">{{ prerender }}</div></body></html>`

type fakeEvaluator struct {
	mu      sync.Mutex
	sources []string
	export  core.Export
	err     error
}

func (f *fakeEvaluator) Evaluate(source string) (core.Export, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	return f.export, f.err
}

func (f *fakeEvaluator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sources)
}

func testLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func testGraph() *core.Graph {
	return core.NewGraph(&core.Stats{Entrypoints: map[string]core.Entrypoint{
		"main": {Assets: []core.AssetRef{{Name: "runtime.js"}, {Name: "main.css"}, {Name: "main.js"}}},
	}}, map[string]core.Asset{
		"runtime.js": core.RawSource("var runtime;"),
		"main.css":   core.RawSource("body{}"),
		"main.js":    core.RawSource("var main;"),
	})
}

func entryRender(opts core.Options) (string, error) {
	return "<p>" + opts.Entry() + "</p>", nil
}

func TestInjectAbsentOptionsIsANoOp(t *testing.T) {
	for _, raw := range []any{nil, "", false, 0, 0.0} {
		eval := &fakeEvaluator{}
		svc := NewInjectService(eval, "", testLogger())

		out := svc.Inject(context.Background(), InjectInput{Graph: testGraph(), HTML: template, Prerender: raw})

		require.NoError(t, out.Error)
		assert.Equal(t, template, out.HTML)
		assert.Equal(t, core.StateDone, out.State)
		assert.Equal(t, []core.State{core.StateIdle, core.StateDone}, out.Trace)
		assert.Zero(t, eval.calls(), "evaluator must not run without options")
	}
}

func TestInjectRendersEntry(t *testing.T) {
	eval := &fakeEvaluator{export: core.RenderFunc(entryRender)}
	svc := NewInjectService(eval, "", testLogger())

	out := svc.Inject(context.Background(), InjectInput{
		Graph:     testGraph(),
		HTML:      template,
		Prerender: map[string]any{"entry": "main", "title": "Home"},
	})

	require.NoError(t, out.Error)
	assert.Equal(t,
		`<html><body><div id="app"><p>main</p><script>Object.assign(window, {"entry":"main","title":"Home"})</script></div></body></html>`,
		out.HTML)
	assert.Equal(t, "main", out.Entry)
	assert.Equal(t, []string{"runtime.js", "main.js"}, out.Artifacts)
	assert.Equal(t, []string{"var runtime;\n;\nvar main;"}, eval.sources)
	assert.Equal(t, []core.State{
		core.StateIdle,
		core.StateNormalizingOptions,
		core.StateResolvingAssets,
		core.StateEvaluating,
		core.StateComposing,
		core.StateSubstituting,
		core.StateDone,
	}, out.Trace)
}

func TestInjectAcceptsTypedMaps(t *testing.T) {
	eval := &fakeEvaluator{export: core.RenderFunc(entryRender)}
	svc := NewInjectService(eval, "", testLogger())

	out := svc.Inject(context.Background(), InjectInput{
		Graph:     testGraph(),
		HTML:      "{{prerender}}",
		Prerender: map[string]string{"entry": "main", "pageTitle": "Home"},
	})

	require.NoError(t, out.Error)
	assert.Equal(t, `<p>main</p><script>Object.assign(window, {"entry":"main","pageTitle":"Home"})</script>`, out.HTML)
	assert.Equal(t, []string{"runtime.js", "main.js"}, out.Artifacts)
}

func TestInjectCustomNamespace(t *testing.T) {
	svc := NewInjectService(&fakeEvaluator{export: core.RenderFunc(entryRender)}, "globalThis", testLogger())

	out := svc.Inject(context.Background(), InjectInput{Graph: testGraph(), HTML: "{{prerender}}", Prerender: "main"})

	require.NoError(t, out.Error)
	assert.Equal(t, `<p>main</p><script>Object.assign(globalThis, {"entry":"main"})</script>`, out.HTML)
}

func TestInjectWithoutPlaceholderKeepsDocument(t *testing.T) {
	svc := NewInjectService(&fakeEvaluator{export: core.RenderFunc(entryRender)}, "", testLogger())
	html := "<html><body>static</body></html>"

	out := svc.Inject(context.Background(), InjectInput{Graph: testGraph(), HTML: html, Prerender: "main"})

	require.NoError(t, out.Error)
	assert.Equal(t, html, out.HTML)
	assert.Equal(t, core.StateDone, out.State)
}

func TestInjectFailures(t *testing.T) {
	boom := errors.New("ReferenceError: document is not defined")

	tests := []struct {
		name      string
		eval      *fakeEvaluator
		prerender any
		wantKind  error
		wantTrace []core.State
	}{
		{
			name:      "options that are not an object",
			eval:      &fakeEvaluator{},
			prerender: 42,
			wantKind:  core.ErrBadOptions,
			wantTrace: []core.State{core.StateIdle, core.StateNormalizingOptions, core.StateFailed},
		},
		{
			name:      "evaluation throws",
			eval:      &fakeEvaluator{err: boom},
			prerender: "main",
			wantKind:  core.ErrEvaluation,
			wantTrace: []core.State{core.StateIdle, core.StateNormalizingOptions, core.StateResolvingAssets, core.StateEvaluating, core.StateFailed},
		},
		{
			name:      "export is not a function",
			eval:      &fakeEvaluator{export: map[string]any{}},
			prerender: "main",
			wantKind:  core.ErrNotAFunction,
			wantTrace: []core.State{core.StateIdle, core.StateNormalizingOptions, core.StateResolvingAssets, core.StateEvaluating, core.StateComposing, core.StateFailed},
		},
		{
			name:      "options hold a function",
			eval:      &fakeEvaluator{export: core.RenderFunc(entryRender)},
			prerender: map[string]any{"entry": "main", "onReady": func() {}},
			wantKind:  core.ErrSerialization,
			wantTrace: []core.State{core.StateIdle, core.StateNormalizingOptions, core.StateResolvingAssets, core.StateEvaluating, core.StateComposing, core.StateFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewInjectService(tt.eval, "", testLogger())

			out := svc.Inject(context.Background(), InjectInput{Graph: testGraph(), HTML: template, Prerender: tt.prerender})

			require.Error(t, out.Error)
			assert.ErrorIs(t, out.Error, tt.wantKind)
			assert.Equal(t, template, out.HTML, "failed injections must not touch the document")
			assert.Equal(t, core.StateFailed, out.State)
			assert.Equal(t, tt.wantTrace, out.Trace)
		})
	}
}

func TestInjectEvaluationErrorWrapsCause(t *testing.T) {
	cause := errors.New("SyntaxError")
	svc := NewInjectService(&fakeEvaluator{err: cause}, "", testLogger())

	out := svc.Inject(context.Background(), InjectInput{Graph: testGraph(), HTML: template, Prerender: "main"})

	assert.ErrorIs(t, out.Error, core.ErrEvaluation)
	assert.ErrorIs(t, out.Error, cause)
}

func TestInjectDoesNotLeakRenderMutationsToCaller(t *testing.T) {
	render := core.RenderFunc(func(opts core.Options) (string, error) {
		opts["renderedAt"] = "build"
		return "<p></p>", nil
	})
	svc := NewInjectService(&fakeEvaluator{export: render}, "", testLogger())
	options := map[string]any{"entry": "main"}

	out := svc.Inject(context.Background(), InjectInput{Graph: testGraph(), HTML: template, Prerender: options})

	require.NoError(t, out.Error)
	assert.NotContains(t, options, "renderedAt")
	assert.Contains(t, out.HTML, `"renderedAt":"build"`)
}

func TestInjectCanceledContext(t *testing.T) {
	eval := &fakeEvaluator{export: core.RenderFunc(entryRender)}
	svc := NewInjectService(eval, "", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := svc.Inject(ctx, InjectInput{Graph: testGraph(), HTML: template, Prerender: "main"})

	assert.ErrorIs(t, out.Error, context.Canceled)
	assert.Equal(t, template, out.HTML)
	assert.Zero(t, eval.calls())
}

func TestInjectWithGojaEvaluator(t *testing.T) {
	graph := core.NewGraph(&core.Stats{Entrypoints: map[string]core.Entrypoint{
		"main": {Assets: []core.AssetRef{{Name: "main.js"}}},
		"lib":  {Assets: []core.AssetRef{{Name: "lib.js"}}},
	}}, map[string]core.Asset{
		"main.js": core.RawSource(`module.exports = function(o) { self.touched = true; return "<h1>" + o.title + "</h1>" }`),
		"lib.js":  core.RawSource(`module.exports = { version: "1.0.0" }`),
	})
	svc := NewInjectService(jsvm.NewEvaluator(jsvm.WithLogger(testLogger())), "", testLogger())

	t.Run("renders", func(t *testing.T) {
		out := svc.Inject(context.Background(), InjectInput{
			Graph:     graph,
			HTML:      "<main>{{prerender}}</main>",
			Prerender: map[string]any{"entry": "main", "title": "Hi"},
		})
		require.NoError(t, out.Error)
		assert.Equal(t, `<main><h1>Hi</h1><script>Object.assign(window, {"entry":"main","title":"Hi"})</script></main>`, out.HTML)
	})

	t.Run("unknown entry is not a function", func(t *testing.T) {
		out := svc.Inject(context.Background(), InjectInput{Graph: graph, HTML: template, Prerender: "missing"})
		assert.ErrorIs(t, out.Error, core.ErrNotAFunction)
		assert.Empty(t, out.Artifacts)
		assert.Equal(t, template, out.HTML)
	})

	t.Run("object export is not a function", func(t *testing.T) {
		out := svc.Inject(context.Background(), InjectInput{Graph: graph, HTML: template, Prerender: "lib"})
		assert.ErrorIs(t, out.Error, core.ErrNotAFunction)
	})
}
