// Package jsvm evaluates compiled bundles in a throwaway goja runtime and
// hands back their export.
package jsvm

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/3-lines-studio/prerender/internal/core"
)

const bundleName = "prerender-bundle.js"

var DefaultPlaceholderGlobals = []string{"self"}

type Evaluator struct {
	placeholders []string
	exportName   string
	logger       *log.Logger
	programs     *programCache
}

type Option func(*Evaluator)

// WithPlaceholderGlobals sets the names bound to fresh empty objects in
// every runtime, in place of the host's global object.
func WithPlaceholderGlobals(names ...string) Option {
	return func(e *Evaluator) {
		e.placeholders = names
	}
}

// WithExportName selects a property of module.exports as the export.
func WithExportName(name string) Option {
	return func(e *Evaluator) {
		e.exportName = name
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

func WithProgramCacheSize(size int) Option {
	return func(e *Evaluator) {
		e.programs = newProgramCache(size)
	}
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		placeholders: DefaultPlaceholderGlobals,
		programs:     newProgramCache(DefaultProgramCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Evaluate runs source in a new runtime and returns its export. Callable
// exports come back as a core.RenderFunc bound to that runtime.
func (e *Evaluator) Evaluate(source string) (export core.Export, err error) {
	defer func() {
		if r := recover(); r != nil {
			export = nil
			err = fmt.Errorf("bundle evaluation panicked: %v", r)
		}
	}()

	program, err := e.compile(source)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	module, err := e.prepare(vm)
	if err != nil {
		return nil, err
	}

	if _, err := vm.RunProgram(program); err != nil {
		return nil, fmt.Errorf("failed to run bundle: %w", err)
	}

	value := e.exportValue(module)

	fn, ok := goja.AssertFunction(value)
	if !ok {
		if value == nil {
			return nil, nil
		}
		return value.Export(), nil
	}

	return core.RenderFunc(func(opts core.Options) (markup string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("render panicked: %v", r)
			}
		}()

		result, err := fn(goja.Undefined(), vm.ToValue(map[string]any(opts)))
		if err != nil {
			return "", err
		}
		markup, ok := result.Export().(string)
		if !ok {
			return "", fmt.Errorf("render function returned %s, want a string", describe(result))
		}
		return markup, nil
	}), nil
}

func (e *Evaluator) compile(source string) (*goja.Program, error) {
	key := core.HashSource(source)
	if program, ok := e.programs.get(key); ok {
		return program, nil
	}

	program, err := goja.Compile(bundleName, source, false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile bundle: %w", err)
	}
	e.programs.set(key, program)
	return program, nil
}

func (e *Evaluator) prepare(vm *goja.Runtime) (*goja.Object, error) {
	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}

	for _, name := range e.placeholders {
		if err := vm.Set(name, vm.NewObject()); err != nil {
			return nil, fmt.Errorf("failed to bind placeholder %q: %w", name, err)
		}
	}

	if err := installConsole(vm, e.logger); err != nil {
		return nil, fmt.Errorf("failed to install console: %w", err)
	}

	return module, nil
}

func (e *Evaluator) exportValue(module *goja.Object) goja.Value {
	value := module.Get("exports")
	if e.exportName == "" {
		return value
	}
	obj, ok := value.(*goja.Object)
	if !ok {
		return nil
	}
	return obj.Get(e.exportName)
}

func describe(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	if t := v.ExportType(); t != nil {
		return t.String()
	}
	return v.String()
}
