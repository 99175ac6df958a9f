package usecase

import (
	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/core"
)

// Evaluator runs bundle source in an isolated context and returns its
// export. Each call must use a fresh context.
type Evaluator interface {
	Evaluate(source string) (core.Export, error)
}

type FileSystem = fs.FileSystem
