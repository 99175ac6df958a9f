package core

import (
	"errors"
	"fmt"
)

var (
	ErrBadOptions    = errors.New("bad prerender options")
	ErrEvaluation    = errors.New("prerender evaluation failed")
	ErrNotAFunction  = errors.New("prerender export is not a function")
	ErrSerialization = errors.New("prerender options are not serializable")
)

const (
	BadOptionsMessage   = "prerender option must be a string or an object"
	NotAFunctionMessage = "the prerender entry must export a function that returns an HTML string; build it as a UMD or CommonJS library"
)

// PipelineError reports a failed injection. Kind is one of the Err*
// sentinels; Err is the underlying cause, if any.
type PipelineError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func BadOptionsError(got any) error {
	return &PipelineError{Kind: ErrBadOptions, Msg: fmt.Sprintf("%s, got %T", BadOptionsMessage, got)}
}

func EvaluationError(err error) error {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return err
	}
	return &PipelineError{Kind: ErrEvaluation, Err: err}
}

func NotAFunctionError() error {
	return &PipelineError{Kind: ErrNotAFunction, Msg: NotAFunctionMessage}
}

func SerializationError(err error) error {
	return &PipelineError{Kind: ErrSerialization, Err: err}
}
