package jsvm

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

type logFunc func(msg interface{}, keyvals ...interface{})

// installConsole routes console.* calls made by the bundle to logger.
func installConsole(vm *goja.Runtime, logger *log.Logger) error {
	bundleLogger := logger.With("source", "bundle")

	methods := map[string]logFunc{
		"log":   bundleLogger.Info,
		"info":  bundleLogger.Info,
		"debug": bundleLogger.Debug,
		"warn":  bundleLogger.Warn,
		"error": bundleLogger.Error,
	}

	console := vm.NewObject()
	for name, logf := range methods {
		if err := console.Set(name, consoleMethod(logf)); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

func consoleMethod(logf logFunc) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		logf(strings.Join(parts, " "))
		return goja.Undefined()
	}
}
