package core

import (
	"encoding/json"
	"fmt"
)

// DefaultNamespace is the page-side global the bootstrap script assigns onto.
const DefaultNamespace = "window"

func BootstrapScript(namespace string, opts Options) (string, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	data, err := json.Marshal(opts)
	if err != nil {
		return "", SerializationError(err)
	}

	return fmt.Sprintf("<script>Object.assign(%s, %s)</script>", namespace, data), nil
}

// ComposeFragment renders the markup for opts and appends the bootstrap
// script. The export must be a RenderFunc.
func ComposeFragment(export Export, opts Options, namespace string) (string, error) {
	render, ok := export.(RenderFunc)
	if !ok || render == nil {
		return "", NotAFunctionError()
	}

	markup, err := render(opts)
	if err != nil {
		return "", EvaluationError(fmt.Errorf("render failed: %w", err))
	}

	script, err := BootstrapScript(namespace, opts)
	if err != nil {
		return "", err
	}

	return markup + script, nil
}
